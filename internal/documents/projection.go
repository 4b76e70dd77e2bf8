package documents

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/goliatone/go-wikithread/internal/logging"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

type candidate struct {
	index     int
	projected interfaces.ProjectedSection
}

// Project prepares doc for cfg.Mode. Thread mode keeps the section tree and
// walks it depth first, ordering siblings by cfg.SortBy. Wiki mode keeps
// only wiki visible sections, flattened and ordered by wiki position (unset
// last) and then by cfg.SortBy. Filters apply in both modes.
func (s *Service) Project(ctx context.Context, doc *interfaces.Document, cfg interfaces.ViewConfig) (*interfaces.ProjectedDocument, error) {
	if doc == nil {
		return nil, documentRequiredError()
	}
	mode, sortBy, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}

	start := s.now()
	logger := logging.WithDocumentContext(s.logger.WithContext(ctx), doc.FilePath, mode)

	candidates := make([]candidate, 0, len(doc.Sections))
	for i, section := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		meta, parsed := s.analyze(ctx, doc, section)
		section.Metadata = meta
		blocks := s.markup.RenderForView(ctx, parsed.Blocks, mode)
		candidates = append(candidates, candidate{
			index: i,
			projected: interfaces.ProjectedSection{
				Section: section,
				Parsed:  parsed,
				Blocks:  blocks,
				Badges:  s.markup.ExtractMetadata(blocks),
				Depth:   meta.ThreadDepth,
			},
		})
	}

	var ordered []candidate
	if mode == interfaces.ViewWiki {
		ordered = wikiOrder(candidates, sortBy)
	} else {
		ordered = threadOrder(candidates, sortBy)
	}

	result := &interfaces.ProjectedDocument{
		Document: *doc,
		Mode:     mode,
		Sections: make([]interfaces.ProjectedSection, 0, len(ordered)),
	}
	for _, c := range ordered {
		if !matchesFilter(c.projected.Section, cfg.Filter) {
			continue
		}
		result.Sections = append(result.Sections, c.projected)
	}
	result.Omitted = len(doc.Sections) - len(result.Sections)

	logging.WithFields(logger, map[string]any{
		"sections":    len(result.Sections),
		"omitted":     result.Omitted,
		"sort_by":     string(sortBy),
		"duration_ms": s.now().Sub(start).Milliseconds(),
	}).Debug("documents.projection.completed")
	return result, nil
}

func normalizeConfig(cfg interfaces.ViewConfig) (interfaces.ViewMode, interfaces.SortKey, error) {
	mode := interfaces.ViewThread
	if cfg.Mode != "" {
		parsed, err := interfaces.ParseViewMode(string(cfg.Mode))
		if err != nil {
			return "", "", invalidConfigError(err, "unknown view mode")
		}
		mode = parsed
	}
	sortBy, err := interfaces.ParseSortKey(string(cfg.SortBy))
	if err != nil {
		return "", "", invalidConfigError(err, "unknown sort key")
	}
	return mode, sortBy, nil
}

// threadOrder walks the section tree depth first. Sections whose parent is
// not part of the document are treated as roots.
func threadOrder(candidates []candidate, sortBy interfaces.SortKey) []candidate {
	present := make(map[uuid.UUID]struct{}, len(candidates))
	for _, c := range candidates {
		present[c.projected.Section.ID] = struct{}{}
	}

	var roots []candidate
	children := map[uuid.UUID][]candidate{}
	for _, c := range candidates {
		parent := c.projected.Section.ParentID
		if parent == nil {
			roots = append(roots, c)
			continue
		}
		if _, ok := present[*parent]; !ok || *parent == c.projected.Section.ID {
			roots = append(roots, c)
			continue
		}
		children[*parent] = append(children[*parent], c)
	}

	ordered := make([]candidate, 0, len(candidates))
	visited := make(map[uuid.UUID]struct{}, len(candidates))
	var walk func(level []candidate)
	walk = func(level []candidate) {
		slices.SortStableFunc(level, siblingOrder(sortBy))
		for _, c := range level {
			id := c.projected.Section.ID
			if _, ok := visited[id]; ok {
				continue
			}
			visited[id] = struct{}{}
			ordered = append(ordered, c)
			walk(children[id])
		}
	}
	walk(roots)

	// sections caught in a parent cycle are never reached from a root
	for _, c := range candidates {
		if _, ok := visited[c.projected.Section.ID]; !ok {
			visited[c.projected.Section.ID] = struct{}{}
			ordered = append(ordered, c)
		}
	}
	return ordered
}

func wikiOrder(candidates []candidate, sortBy interfaces.SortKey) []candidate {
	visible := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.projected.Section.Metadata.WikiVisibility {
			c.projected.Depth = 0
			visible = append(visible, c)
		}
	}

	tieBreak := siblingOrder(sortBy)
	slices.SortStableFunc(visible, func(a, b candidate) int {
		pa, pb := a.projected.Section.Metadata.WikiPosition, b.projected.Section.Metadata.WikiPosition
		switch {
		case pa != nil && pb != nil:
			if order := cmp.Compare(*pa, *pb); order != 0 {
				return order
			}
		case pa != nil:
			return -1
		case pb != nil:
			return 1
		}
		return tieBreak(a, b)
	})
	return visible
}

// siblingOrder compares sections by key, falling back to position and then
// to document order.
func siblingOrder(key interfaces.SortKey) func(a, b candidate) int {
	return func(a, b candidate) int {
		sa, sb := a.projected.Section, b.projected.Section
		switch key {
		case interfaces.SortByVotes:
			if order := cmp.Compare(sb.VoteScore, sa.VoteScore); order != 0 {
				return order
			}
		case interfaces.SortByRecent:
			if order := sb.UpdatedAt.Compare(sa.UpdatedAt); order != 0 {
				return order
			}
		}
		if order := cmp.Compare(sa.Position, sb.Position); order != 0 {
			return order
		}
		return cmp.Compare(a.index, b.index)
	}
}

func matchesFilter(section interfaces.Section, filter interfaces.SectionFilter) bool {
	if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, section.Metadata.Status) {
		return false
	}
	if filter.MinConsensus != nil {
		level := section.Metadata.ConsensusLevel
		if level == nil || *level < *filter.MinConsensus {
			return false
		}
	}
	if filter.AuthorID != nil && section.AuthorID != *filter.AuthorID {
		return false
	}
	return true
}
