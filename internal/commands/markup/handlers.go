package markupcmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-wikithread/internal/commands"
	"github.com/goliatone/go-wikithread/internal/logging"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

const (
	parseOperation    = "markup.parse"
	validateOperation = "markup.validate"
	renderOperation   = "documents.render"

	markupInvalidCode = "MARKUP_INVALID"
)

// ErrMarkupInvalid is returned by strict validation when markup has problems.
var ErrMarkupInvalid = errors.New("markup command: markup is invalid")

var (
	_ command.Commander[ParseContentCommand]   = (*ParseContentHandler)(nil)
	_ command.Commander[ValidateMarkupCommand] = (*ValidateMarkupHandler)(nil)
	_ command.Commander[RenderDocumentCommand] = (*RenderDocumentHandler)(nil)
)

// ParseContentHandler parses markup through the shared command handler foundation.
type ParseContentHandler struct {
	inner *commands.Handler[ParseContentCommand]
}

// NewParseContentHandler creates a handler bound to the supplied markup engine.
func NewParseContentHandler(service interfaces.MarkupService, logger interfaces.Logger, opts ...commands.HandlerOption[ParseContentCommand]) *ParseContentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ParseContentCommand) error {
		mode := msg.Mode
		if mode == "" {
			mode = interfaces.ViewThread
		}

		parsed := service.Parse(ctx, msg.Content)
		view := service.RenderForView(ctx, parsed.Blocks, mode)
		result := ParseResult{
			Parsed:      parsed,
			Mode:        mode,
			View:        view,
			Text:        service.RenderText(ctx, parsed.Blocks, mode),
			Badges:      service.ExtractMetadata(view),
			WikiVisible: service.IsWikiVisible(parsed.Blocks),
		}

		logging.WithFields(baseLogger, map[string]any{
			"blocks":       len(parsed.Blocks),
			"view_blocks":  len(view),
			"wiki_visible": result.WikiVisible,
		}).Info("markup.command.parse.completed")

		if msg.Result != nil {
			msg.Result(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ParseContentCommand]{
		commands.WithLogger[ParseContentCommand](baseLogger),
		commands.WithOperation[ParseContentCommand](parseOperation),
		commands.WithMessageFields(func(msg ParseContentCommand) map[string]any {
			fields := map[string]any{"content_bytes": len(msg.Content)}
			if msg.Mode != "" {
				fields["view_mode"] = string(msg.Mode)
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ParseContentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ParseContentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ParseContentCommand].
func (h *ParseContentHandler) Execute(ctx context.Context, msg ParseContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CLIOptions describes the handler for CLI registries.
func (h *ParseContentHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"markup", "parse"},
		Group:       "markup",
		Description: "Parse semantic markup into typed blocks",
	}
}

// ValidateMarkupHandler validates markup through the shared command handler foundation.
type ValidateMarkupHandler struct {
	inner *commands.Handler[ValidateMarkupCommand]
}

// NewValidateMarkupHandler creates a handler bound to the supplied markup engine.
func NewValidateMarkupHandler(service interfaces.MarkupService, logger interfaces.Logger, opts ...commands.HandlerOption[ValidateMarkupCommand]) *ValidateMarkupHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ValidateMarkupCommand) error {
		result := service.Validate(ctx, msg.Content)
		logging.WithFields(baseLogger, map[string]any{
			"valid":       result.IsValid,
			"error_count": len(result.Errors),
		}).Info("markup.command.validate.completed")

		if msg.Result != nil {
			msg.Result(result)
		}
		if msg.Strict && !result.IsValid {
			err := fmt.Errorf("%w: %s", ErrMarkupInvalid, strings.Join(result.Errors, "; "))
			return commands.ValidationFailure(err, markupInvalidCode, "markup validation failed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateMarkupCommand]{
		commands.WithLogger[ValidateMarkupCommand](baseLogger),
		commands.WithOperation[ValidateMarkupCommand](validateOperation),
		commands.WithMessageFields(func(msg ValidateMarkupCommand) map[string]any {
			fields := map[string]any{"content_bytes": len(msg.Content)}
			if msg.Strict {
				fields["strict"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ValidateMarkupCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateMarkupHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ValidateMarkupCommand].
func (h *ValidateMarkupHandler) Execute(ctx context.Context, msg ValidateMarkupCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CLIOptions describes the handler for CLI registries.
func (h *ValidateMarkupHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"markup", "validate"},
		Group:       "markup",
		Description: "Check semantic markup for unbalanced tags and bad consensus levels",
	}
}

// RenderDocumentHandler loads and renders discussions through the shared
// command handler foundation.
type RenderDocumentHandler struct {
	inner *commands.Handler[RenderDocumentCommand]
}

// NewRenderDocumentHandler creates a handler bound to the supplied loader and
// documents service.
func NewRenderDocumentHandler(loader interfaces.DocumentLoader, documents interfaces.DocumentService, logger interfaces.Logger, opts ...commands.HandlerOption[RenderDocumentCommand]) *RenderDocumentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg RenderDocumentCommand) error {
		doc, err := loader.LoadFile(ctx, msg.Path)
		if err != nil {
			return err
		}

		cfg := msg.ViewConfig()
		projected, err := documents.Project(ctx, doc, cfg)
		if err != nil {
			return err
		}

		format := msg.Format
		if format == "" {
			format = FormatMarkdown
		}
		var output []byte
		switch format {
		case FormatHTML:
			output, err = documents.RenderHTML(ctx, doc, cfg)
		default:
			var md string
			md, err = documents.RenderMarkdown(ctx, doc, cfg)
			output = []byte(md)
		}
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"sections": len(projected.Sections),
			"omitted":  projected.Omitted,
			"format":   format,
			"bytes":    len(output),
		}).Info("documents.command.render.completed")

		if msg.Result != nil {
			msg.Result(RenderResult{
				Document:  doc,
				Projected: projected,
				Format:    format,
				Output:    output,
			})
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderDocumentCommand]{
		commands.WithLogger[RenderDocumentCommand](baseLogger),
		commands.WithOperation[RenderDocumentCommand](renderOperation),
		commands.WithMessageFields(func(msg RenderDocumentCommand) map[string]any {
			fields := map[string]any{"path": msg.Path}
			if msg.Mode != "" {
				fields["view_mode"] = msg.Mode
			}
			if msg.SortBy != "" {
				fields["sort_by"] = msg.SortBy
			}
			if msg.Format != "" {
				fields["format"] = msg.Format
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderDocumentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderDocumentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RenderDocumentCommand].
func (h *RenderDocumentHandler) Execute(ctx context.Context, msg RenderDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CLIOptions describes the handler for CLI registries.
func (h *RenderDocumentHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"documents", "render"},
		Group:       "documents",
		Description: "Render a markdown discussion as a thread or wiki view",
	}
}
