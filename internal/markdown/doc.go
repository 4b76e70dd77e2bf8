// Package markdown loads markdown discussions with YAML front matter into
// documents made of sections and renders flat markdown views to HTML with
// goldmark. Sanitising uses the bluemonday UGC policy.
package markdown
