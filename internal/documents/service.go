package documents

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-wikithread/internal/logging"
	"github.com/goliatone/go-wikithread/internal/markdown"
	"github.com/goliatone/go-wikithread/internal/markup"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// Service projects documents into thread and wiki views. Section content is
// re-parsed on every call; nothing is cached between calls.
type Service struct {
	markup   interfaces.MarkupService
	renderer interfaces.MarkdownRenderer
	logger   interfaces.Logger
	now      func() time.Time
}

// ServiceOption customises the documents service.
type ServiceOption func(*Service)

// WithMarkupService replaces the default markup engine.
func WithMarkupService(svc interfaces.MarkupService) ServiceOption {
	return func(s *Service) {
		if svc != nil {
			s.markup = svc
		}
	}
}

// WithRenderer replaces the default HTML renderer.
func WithRenderer(renderer interfaces.MarkdownRenderer) ServiceOption {
	return func(s *Service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithLogger attaches the logger used for projection diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
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

// NewService constructs a documents service. Without overrides it uses the
// default markup engine and a sanitising goldmark renderer.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.markup == nil {
		s.markup = markup.NewService()
	}
	if s.renderer == nil {
		s.renderer = markdown.NewGoldmarkRenderer(interfaces.RenderOptions{
			Extensions: []string{"gfm"},
			Sanitize:   true,
			SafeMode:   true,
		})
	}
	return s
}

var _ interfaces.DocumentService = (*Service)(nil)

// AnalyzeSection derives section metadata from its content. The stored
// placement, promotion and vote fields are carried over unchanged.
func (s *Service) AnalyzeSection(doc *interfaces.Document, section interfaces.Section) interfaces.SectionMetadata {
	meta, _ := s.analyze(context.Background(), doc, section)
	return meta
}

func (s *Service) analyze(ctx context.Context, doc *interfaces.Document, section interfaces.Section) (interfaces.SectionMetadata, interfaces.ParsedContent) {
	parsed := s.markup.Parse(ctx, section.Content)

	meta := interfaces.SectionMetadata{
		WikiVisibility: section.Metadata.Promoted ||
			(parsed.Metadata.WikiVisibility && s.markup.IsWikiVisible(parsed.Blocks)),
		WikiPosition:   cloneInt(section.Metadata.WikiPosition),
		ConsensusLevel: cloneFloat(parsed.Metadata.ConsensusLevel),
		PromotionVotes: section.Metadata.PromotionVotes,
		Promoted:       section.Metadata.Promoted,
		Status:         deriveStatus(parsed.Blocks),
		MarkupTags:     markupTags(parsed.Blocks),
		ThreadDepth:    threadDepth(doc, section),
	}
	return meta, parsed
}

// Promote marks a section as wiki visible regardless of its markup.
func (s *Service) Promote(doc *interfaces.Document, sectionID uuid.UUID) (*interfaces.Section, error) {
	if doc == nil {
		return nil, documentRequiredError()
	}
	for i := range doc.Sections {
		if doc.Sections[i].ID != sectionID {
			continue
		}
		doc.Sections[i].Metadata.Promoted = true
		doc.Sections[i].Metadata.WikiVisibility = true
		logging.WithFields(s.logger, map[string]any{
			"document": doc.ID.String(),
			"section":  sectionID.String(),
		}).Info("documents.section.promoted")
		return &doc.Sections[i], nil
	}
	return nil, sectionNotFoundError(sectionID)
}

// deriveStatus maps the block kinds present in a section to its status.
func deriveStatus(blocks []interfaces.Block) interfaces.SectionStatus {
	hasConsensus := slices.ContainsFunc(blocks, func(b interfaces.Block) bool { return b.Kind == interfaces.BlockConsensus })
	hasDebate := slices.ContainsFunc(blocks, func(b interfaces.Block) bool { return b.Kind == interfaces.BlockDebate })

	switch {
	case hasConsensus && hasDebate:
		return interfaces.SectionContested
	case hasConsensus:
		return interfaces.SectionConsensus
	case hasDebate:
		return interfaces.SectionActive
	default:
		return interfaces.SectionDraft
	}
}

// markupTags lists the block kinds present, in block order, without repeats.
func markupTags(blocks []interfaces.Block) []string {
	tags := []string{}
	for _, block := range blocks {
		tag := string(block.Kind)
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// threadDepth counts the ancestors of section inside doc. Missing parents end
// the chain; cycles are cut at the first repeated section.
func threadDepth(doc *interfaces.Document, section interfaces.Section) int {
	if doc == nil {
		return section.Metadata.ThreadDepth
	}
	parents := make(map[uuid.UUID]*uuid.UUID, len(doc.Sections))
	for _, candidate := range doc.Sections {
		parents[candidate.ID] = candidate.ParentID
	}

	depth := 0
	seen := map[uuid.UUID]struct{}{section.ID: {}}
	for parent := section.ParentID; parent != nil; {
		if _, ok := seen[*parent]; ok {
			break
		}
		next, ok := parents[*parent]
		if !ok {
			break
		}
		seen[*parent] = struct{}{}
		depth++
		parent = next
	}
	return depth
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}
