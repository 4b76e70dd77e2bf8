package interfaces

import "time"

// MarkdownRenderer converts flat markdown (as produced by the wiki/thread
// text renderers) into HTML. Implementations must be safe for reuse across
// requests.
type MarkdownRenderer interface {
	// Render converts Markdown into HTML using the renderer's default settings.
	Render(markdown []byte) ([]byte, error)
	// RenderWithOptions converts Markdown into HTML using the supplied overrides.
	RenderWithOptions(markdown []byte, opts RenderOptions) ([]byte, error)
}

// RenderOptions customises Markdown rendering, keeping option names
// readable for configuration unmarshalling and CLI flags.
type RenderOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// FrontMatter models document metadata read from the YAML header of a
// markdown discussion file. Raw keeps every key for schema validation.
type FrontMatter struct {
	ID          string                        `yaml:"id" json:"id,omitempty"`
	Title       string                        `yaml:"title" json:"title"`
	Description string                        `yaml:"description" json:"description,omitempty"`
	Tags        []string                      `yaml:"tags" json:"tags,omitempty"`
	Author      string                        `yaml:"author" json:"author,omitempty"`
	Public      bool                          `yaml:"public" json:"public"`
	Sections    map[string]SectionFrontMatter `yaml:"sections" json:"sections,omitempty"`
	Custom      map[string]any                `yaml:",inline" json:"custom,omitempty"`
	Raw         map[string]any                `yaml:"-" json:"raw,omitempty"`
}

// SectionFrontMatter carries the stored fields of one section, keyed by the
// section anchor in FrontMatter.Sections. Markup cannot express these.
type SectionFrontMatter struct {
	Author         string    `yaml:"author" json:"author,omitempty"`
	Votes          int       `yaml:"votes" json:"votes,omitempty"`
	WikiPosition   *int      `yaml:"wiki_position" json:"wiki_position,omitempty"`
	PromotionVotes int       `yaml:"promotion_votes" json:"promotion_votes,omitempty"`
	Promoted       bool      `yaml:"promoted" json:"promoted,omitempty"`
	Updated        time.Time `yaml:"updated" json:"updated,omitempty"`
}
