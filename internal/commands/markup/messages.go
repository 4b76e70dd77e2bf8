package markupcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-wikithread/internal/markdown"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

const (
	parseContentMessageType   = "wikithread.markup.parse"
	validateMarkupMessageType = "wikithread.markup.validate"
	renderDocumentMessageType = "wikithread.documents.render"
)

// Output formats accepted by RenderDocumentCommand.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// ParseResult is handed to ParseContentCommand.Result.
type ParseResult struct {
	Parsed      interfaces.ParsedContent `json:"parsed" yaml:"parsed"`
	Mode        interfaces.ViewMode      `json:"mode" yaml:"mode"`
	View        []interfaces.Block       `json:"view" yaml:"view"`
	Text        string                   `json:"text" yaml:"text"`
	Badges      interfaces.ViewMetadata  `json:"badges" yaml:"badges"`
	WikiVisible bool                     `json:"wikiVisible" yaml:"wikiVisible"`
}

// ParseContentCommand parses raw markup and projects it for Mode (thread
// when empty).
type ParseContentCommand struct {
	Content string              `json:"content"`
	Mode    interfaces.ViewMode `json:"mode,omitempty"`
	// Result receives the parse outcome. Commands carry no return value.
	Result func(ParseResult) `json:"-"`
}

// Type implements command.Message.
func (ParseContentCommand) Type() string { return parseContentMessageType }

// Validate rejects unknown view modes. Empty content is valid markup.
func (cmd ParseContentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Mode, validation.In(interfaces.ViewThread, interfaces.ViewWiki).
			Error("mode must be thread or wiki")),
	)
}

// ValidateMarkupCommand checks markup balance and consensus ranges. With
// Strict set, invalid markup fails the command instead of only being reported.
type ValidateMarkupCommand struct {
	Content string                            `json:"content"`
	Strict  bool                              `json:"strict,omitempty"`
	Result  func(interfaces.ValidationResult) `json:"-"`
}

// Type implements command.Message.
func (ValidateMarkupCommand) Type() string { return validateMarkupMessageType }

// Validate implements command.Message. Any content is acceptable input.
func (ValidateMarkupCommand) Validate() error { return nil }

// RenderResult is handed to RenderDocumentCommand.Result.
type RenderResult struct {
	Document  *interfaces.Document          `json:"document" yaml:"document"`
	Projected *interfaces.ProjectedDocument `json:"projected" yaml:"projected"`
	Format    string                        `json:"format" yaml:"format"`
	Output    []byte                        `json:"-" yaml:"-"`
}

// RenderDocumentCommand loads the discussion at Path and renders its
// thread or wiki projection.
type RenderDocumentCommand struct {
	Path         string             `json:"path"`
	Mode         string             `json:"mode,omitempty"`
	SortBy       string             `json:"sort_by,omitempty"`
	Format       string             `json:"format,omitempty"`
	ShowMetadata bool               `json:"show_metadata,omitempty"`
	Statuses     []string           `json:"statuses,omitempty"`
	MinConsensus *float64           `json:"min_consensus,omitempty"`
	Author       string             `json:"author,omitempty"`
	Result       func(RenderResult) `json:"-"`
}

// Type implements command.Message.
func (RenderDocumentCommand) Type() string { return renderDocumentMessageType }

// Validate checks the path and every option against its accepted values.
func (cmd RenderDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("wikithread.documents.render.path_required", "path is required")
			}
			return nil
		})),
		validation.Field(&cmd.Mode, validation.In(string(interfaces.ViewThread), string(interfaces.ViewWiki))),
		validation.Field(&cmd.SortBy, validation.In(
			string(interfaces.SortByPosition),
			string(interfaces.SortByVotes),
			string(interfaces.SortByRecent),
		)),
		validation.Field(&cmd.Format, validation.In(FormatMarkdown, FormatHTML)),
		validation.Field(&cmd.Statuses, validation.Each(validation.In(
			string(interfaces.SectionDraft),
			string(interfaces.SectionActive),
			string(interfaces.SectionConsensus),
			string(interfaces.SectionContested),
		))),
		validation.Field(&cmd.MinConsensus, validation.Min(0.0), validation.Max(1.0)),
	)
}

// ViewConfig maps the command options onto a projection config. Author
// names resolve to the identifiers the markdown loader assigns.
func (cmd RenderDocumentCommand) ViewConfig() interfaces.ViewConfig {
	cfg := interfaces.ViewConfig{
		Mode:         interfaces.ViewMode(cmd.Mode),
		SortBy:       interfaces.SortKey(cmd.SortBy),
		ShowMetadata: cmd.ShowMetadata,
	}
	for _, status := range cmd.Statuses {
		cfg.Filter.Statuses = append(cfg.Filter.Statuses, interfaces.SectionStatus(status))
	}
	if cmd.MinConsensus != nil {
		level := *cmd.MinConsensus
		cfg.Filter.MinConsensus = &level
	}
	if author := strings.TrimSpace(cmd.Author); author != "" {
		id := markdown.AuthorID(author)
		cfg.Filter.AuthorID = &id
	}
	return cfg
}
