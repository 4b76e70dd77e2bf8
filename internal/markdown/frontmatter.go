package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and the markdown body from source.
// Sources without a front matter block yield an empty FrontMatter and the
// whole source as body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

type frontMatterEnvelope struct {
	ID          string                                   `yaml:"id"`
	Title       string                                   `yaml:"title"`
	Description string                                   `yaml:"description"`
	Tags        []string                                 `yaml:"tags"`
	Author      string                                   `yaml:"author"`
	Public      *bool                                    `yaml:"public"`
	Sections    map[string]interfaces.SectionFrontMatter `yaml:"sections"`
	Custom      map[string]any                           `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	env.Custom = cloneMap(env.Custom)
	raw := make(map[string]any, len(env.Custom)+8)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.ID != "" {
		raw["id"] = env.ID
	}
	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Description != "" {
		raw["description"] = env.Description
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	public := true
	if env.Public != nil {
		public = *env.Public
		raw["public"] = public
	}
	if len(env.Sections) > 0 {
		raw["sections"] = env.Sections
	}

	return interfaces.FrontMatter{
		ID:          env.ID,
		Title:       env.Title,
		Description: env.Description,
		Tags:        append([]string(nil), env.Tags...),
		Author:      env.Author,
		Public:      public,
		Sections:    env.Sections,
		Custom:      env.Custom,
		Raw:         raw,
	}
}

// cloneMap copies input, converting the map[interface{}]interface{} values
// the YAML decoder produces for nested mappings into map[string]any.
func cloneMap(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[fmt.Sprint(key)] = normalizeValue(nested)
		}
		return out
	case map[string]any:
		return cloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, nested := range typed {
			out[i] = normalizeValue(nested)
		}
		return out
	default:
		return value
	}
}
