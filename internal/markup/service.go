package markup

import (
	"context"
	"time"

	"github.com/goliatone/go-wikithread/internal/logging"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// Service exposes the parsing engine behind interfaces.MarkupService and
// adds structured diagnostics. It holds no per-call state and is safe for
// concurrent use.
type Service struct {
	logger          interfaces.Logger
	wikiDecorations bool
	now             func() time.Time
}

// ServiceOption customises service behaviour.
type ServiceOption func(*Service)

// WithLogger attaches the logger used for diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWikiDecorations toggles the bold annotations RenderText adds in wiki mode.
func WithWikiDecorations(enabled bool) ServiceOption {
	return func(s *Service) {
		s.wikiDecorations = enabled
	}
}

// WithClock overrides the time source used for duration fields.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a markup service. Wiki decorations are on by default.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		logger:          logging.NoOp(),
		wikiDecorations: true,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ interfaces.MarkupService = (*Service)(nil)

// Parse satisfies interfaces.MarkupService.
func (s *Service) Parse(ctx context.Context, content string) interfaces.ParsedContent {
	start := s.now()
	parsed := Parse(content)

	fields := map[string]any{
		"blocks":          len(parsed.Blocks),
		"wiki_visibility": parsed.Metadata.WikiVisibility,
		"duration_ms":     s.now().Sub(start).Milliseconds(),
	}
	if parsed.Metadata.ConsensusLevel != nil {
		fields["consensus_level"] = *parsed.Metadata.ConsensusLevel
	}
	logging.WithFields(s.baseLogger(ctx), fields).Debug("markup.service.parse_completed")
	return parsed
}

// RenderForView satisfies interfaces.MarkupService.
func (s *Service) RenderForView(ctx context.Context, blocks []interfaces.Block, mode interfaces.ViewMode) []interfaces.Block {
	visible := RenderForView(blocks, mode)
	logging.WithFields(s.baseLogger(ctx), map[string]any{
		"view_mode": string(mode),
		"blocks":    len(blocks),
		"visible":   len(visible),
	}).Trace("markup.service.view_rendered")
	return visible
}

// RenderText satisfies interfaces.MarkupService.
func (s *Service) RenderText(_ context.Context, blocks []interfaces.Block, mode interfaces.ViewMode) string {
	return renderText(blocks, mode, s.wikiDecorations)
}

// IsWikiVisible satisfies interfaces.MarkupService.
func (s *Service) IsWikiVisible(blocks []interfaces.Block) bool {
	return IsWikiVisible(blocks)
}

// ExtractMetadata satisfies interfaces.MarkupService.
func (s *Service) ExtractMetadata(blocks []interfaces.Block) interfaces.ViewMetadata {
	return ExtractMetadata(blocks)
}

// Validate satisfies interfaces.MarkupService. Invalid markup is logged as a
// warning; it is never an error.
func (s *Service) Validate(ctx context.Context, content string) interfaces.ValidationResult {
	result := ValidateMarkup(content)
	if !result.IsValid {
		logging.WithFields(s.baseLogger(ctx), map[string]any{
			"error_count": len(result.Errors),
			"errors":      result.Errors,
		}).Warn("markup.service.validation_failed")
	}
	return result
}

// Strip satisfies interfaces.MarkupService.
func (s *Service) Strip(content string) string {
	return StripMarkup(content)
}

// Convert satisfies interfaces.MarkupService.
func (s *Service) Convert(text string, opts interfaces.ConvertOptions) string {
	return ConvertToMarkup(text, opts)
}

func (s *Service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := s.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}
