package documents

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

const maxHeadingLevel = 6

// RenderMarkdown flattens the projection of doc into one markdown document:
// the title, the description, then every section as a heading followed by
// its rendered text. Thread mode indents headings by thread depth.
func (s *Service) RenderMarkdown(ctx context.Context, doc *interfaces.Document, cfg interfaces.ViewConfig) (string, error) {
	projected, err := s.Project(ctx, doc, cfg)
	if err != nil {
		return "", err
	}

	var parts []string
	if title := strings.TrimSpace(doc.Title); title != "" {
		parts = append(parts, "# "+title)
	}
	if description := strings.TrimSpace(doc.Description); description != "" {
		parts = append(parts, description)
	}

	for _, section := range projected.Sections {
		if title := strings.TrimSpace(section.Section.Title); title != "" {
			level := min(2+section.Depth, maxHeadingLevel)
			parts = append(parts, strings.Repeat("#", level)+" "+title)
		}
		if cfg.ShowMetadata {
			parts = append(parts, metadataLine(section))
		}
		if text := strings.TrimSpace(s.markup.RenderText(ctx, section.Parsed.Blocks, projected.Mode)); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n\n") + "\n", nil
}

// RenderHTML renders the markdown projection of doc to HTML.
func (s *Service) RenderHTML(ctx context.Context, doc *interfaces.Document, cfg interfaces.ViewConfig) ([]byte, error) {
	md, err := s.RenderMarkdown(ctx, doc, cfg)
	if err != nil {
		return nil, err
	}
	html, err := s.renderer.Render([]byte(md))
	if err != nil {
		return nil, fmt.Errorf("documents: render html: %w", err)
	}
	return html, nil
}

func metadataLine(section interfaces.ProjectedSection) string {
	meta := section.Section.Metadata
	fields := []string{"status: " + string(meta.Status)}
	if meta.ConsensusLevel != nil {
		fields = append(fields, fmt.Sprintf("consensus: %.0f%%", math.Round(*meta.ConsensusLevel*100)))
	}
	fields = append(fields, fmt.Sprintf("votes: %d", section.Section.VoteScore))
	if meta.PromotionVotes > 0 {
		fields = append(fields, fmt.Sprintf("promotion votes: %d", meta.PromotionVotes))
	}
	if len(section.Badges.DebateTopics) > 0 {
		fields = append(fields, "debating: "+strings.Join(section.Badges.DebateTopics, ", "))
	}
	return "_" + strings.Join(fields, " | ") + "_"
}
