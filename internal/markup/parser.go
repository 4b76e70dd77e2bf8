package markup

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// Parse extracts typed blocks from content, builds the tag-free plain text
// and aggregates document metadata. Blocks are grouped by tag family in pass
// order (consensus, debate, synthesis, wiki-primary, thread-only) and
// left-to-right within a family. Block positions are character (rune)
// offsets into content. Malformed markup is never an error: tags without a
// matching close marker are left in place.
func Parse(content string) interfaces.ParsedContent {
	var (
		blocks []interfaces.Block
		spans  []span
	)
	metadata := interfaces.ContentMetadata{WikiVisibility: true}

	for _, family := range families {
		if !family.emitsBlocks {
			continue
		}
		for _, loc := range family.pattern.FindAllStringSubmatchIndex(content, -1) {
			block := buildBlock(family, content, loc)
			blocks = append(blocks, block)
			spans = append(spans, span{start: loc[0], end: loc[1], content: block.Content})
			aggregate(&metadata, block)
		}
	}

	if containsKind(blocks, interfaces.BlockThreadOnly) {
		metadata.WikiVisibility = containsKind(blocks, interfaces.BlockWikiPrimary) ||
			containsKind(blocks, interfaces.BlockConsensus)
	}

	if len(blocks) == 0 {
		return interfaces.ParsedContent{
			Blocks: []interfaces.Block{{
				Kind:          interfaces.BlockWikiPrimary,
				Content:       strings.TrimSpace(content),
				Attributes:    interfaces.WikiPrimaryAttributes{},
				StartPosition: 0,
				EndPosition:   utf8.RuneCountInString(content),
			}},
			PlainText: strings.TrimSpace(content),
			Metadata:  metadata,
		}
	}

	return interfaces.ParsedContent{
		Blocks:    blocks,
		PlainText: spliceBlocks(content, spans),
		Metadata:  metadata,
	}
}

func buildBlock(family tagFamily, source string, loc []int) interfaces.Block {
	param := group(source, loc, family.paramGroup)
	block := interfaces.Block{
		Kind:          family.kind,
		Content:       StripMarkup(group(source, loc, family.contentGroup)),
		StartPosition: utf8.RuneCountInString(source[:loc[0]]),
		EndPosition:   utf8.RuneCountInString(source[:loc[1]]),
	}

	switch family.kind {
	case interfaces.BlockConsensus:
		block.Attributes = interfaces.ConsensusAttributes{Level: parsePercentage(param) / 100}
	case interfaces.BlockDebate:
		block.Attributes = interfaces.DebateAttributes{
			Topic:  strings.TrimSpace(param),
			Status: interfaces.DebateStatusActive,
		}
	case interfaces.BlockSynthesis:
		block.Attributes = interfaces.SynthesisAttributes{Sources: splitSources(param)}
	case interfaces.BlockWikiPrimary:
		block.Attributes = interfaces.WikiPrimaryAttributes{Priority: "high"}
	case interfaces.BlockThreadOnly:
		block.Attributes = interfaces.ThreadOnlyAttributes{Visibility: "thread"}
	}
	return block
}

func aggregate(metadata *interfaces.ContentMetadata, block interfaces.Block) {
	switch attrs := block.Attributes.(type) {
	case interfaces.ConsensusAttributes:
		if metadata.ConsensusLevel == nil || attrs.Level > *metadata.ConsensusLevel {
			level := attrs.Level
			metadata.ConsensusLevel = &level
		}
	case interfaces.DebateAttributes:
		metadata.DebateStatus = interfaces.DebateStatusActive
	case interfaces.SynthesisAttributes:
		metadata.SynthesisSource = slices.Clone(attrs.Sources)
	}
}

// span is a matched tag in byte offsets, kept alongside the block so
// splicing never has to map character positions back to bytes.
type span struct {
	start, end int
	content    string
}

// spliceBlocks rewrites source by replacing every matched span with its
// block content. Spans nested inside an already replaced span are skipped;
// the outer block content has them stripped already.
func spliceBlocks(source string, matched []span) string {
	ordered := slices.Clone(matched)
	slices.SortStableFunc(ordered, func(a, b span) int {
		return a.start - b.start
	})

	var out strings.Builder
	out.Grow(len(source))
	cursor := 0
	for _, sp := range ordered {
		if sp.start < cursor {
			continue
		}
		out.WriteString(source[cursor:sp.start])
		out.WriteString(sp.content)
		cursor = sp.end
	}
	out.WriteString(source[cursor:])
	return strings.TrimSpace(out.String())
}

// parsePercentage coerces unparsable numbers to zero. Numbers beyond float64
// range keep their infinite value so validation still flags them.
func parsePercentage(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return value
}

func splitSources(raw string) []string {
	parts := strings.Split(raw, ",")
	sources := make([]string, len(parts))
	for i, part := range parts {
		sources[i] = strings.TrimSpace(part)
	}
	return sources
}

func containsKind(blocks []interfaces.Block, kind interfaces.BlockKind) bool {
	for _, block := range blocks {
		if block.Kind == kind {
			return true
		}
	}
	return false
}
