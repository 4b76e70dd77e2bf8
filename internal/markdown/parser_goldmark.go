package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// GoldmarkRenderer implements interfaces.MarkdownRenderer using the goldmark
// engine. It keeps no per-call state so a single instance can serve
// concurrent requests.
type GoldmarkRenderer struct {
	defaultOptions interfaces.RenderOptions
	policy         *bluemonday.Policy
}

// NewGoldmarkRenderer constructs a renderer with the supplied defaults.
// Sanitised output uses the bluemonday UGC policy.
func NewGoldmarkRenderer(defaults interfaces.RenderOptions) *GoldmarkRenderer {
	return &GoldmarkRenderer{
		defaultOptions: defaults,
		policy:         bluemonday.UGCPolicy(),
	}
}

var _ interfaces.MarkdownRenderer = (*GoldmarkRenderer)(nil)

// Render converts markdown into HTML using the renderer's defaults.
func (r *GoldmarkRenderer) Render(markdown []byte) ([]byte, error) {
	return r.RenderWithOptions(markdown, r.defaultOptions)
}

// RenderWithOptions converts markdown into HTML using opts.
func (r *GoldmarkRenderer) RenderWithOptions(markdown []byte, opts interfaces.RenderOptions) ([]byte, error) {
	engine := newGoldmarkEngine(opts)
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	if !opts.Sanitize {
		return buf.Bytes(), nil
	}
	return r.policy.SanitizeBytes(buf.Bytes()), nil
}

// newGoldmarkEngine builds a goldmark.Markdown for opts. Headings get
// automatic ids so rendered sections can be linked by anchor. Raw HTML is
// only emitted when SafeMode is off.
func newGoldmarkEngine(opts interfaces.RenderOptions) goldmark.Markdown {
	var htmlOptions []renderer.Option
	if opts.HardWraps {
		htmlOptions = append(htmlOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		htmlOptions = append(htmlOptions, html.WithUnsafe())
	}

	return goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(htmlOptions...),
		goldmark.WithExtensions(collectExtensions(opts.Extensions)...),
	)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// SupportedExtension reports whether name maps to a goldmark extension.
func SupportedExtension(name string) bool {
	_, ok := extensionRegistry[normalizeExtension(name)]
	return ok
}

// collectExtensions resolves names to extenders in order, dropping unknown
// names and repeats. No names means GFM.
func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM}
	}
	var extenders []goldmark.Extender
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := normalizeExtension(name)
		ext, ok := extensionRegistry[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		extenders = append(extenders, ext)
	}
	return extenders
}

func normalizeExtension(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
