package markup

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// wikiPriority orders blocks in the wiki view, highest first.
var wikiPriority = map[interfaces.BlockKind]int{
	interfaces.BlockConsensus:   4,
	interfaces.BlockSynthesis:   3,
	interfaces.BlockWikiPrimary: 2,
	interfaces.BlockDebate:      1,
	interfaces.BlockThreadOnly:  0,
}

const blockSeparator = "\n\n"

// RenderForView returns the blocks visible in mode. Thread mode keeps every
// block in tokenizer order. Wiki mode drops thread-only blocks and sorts the
// rest by descending priority, keeping tokenizer order among equals. The
// input slice is never modified.
func RenderForView(blocks []interfaces.Block, mode interfaces.ViewMode) []interfaces.Block {
	if mode != interfaces.ViewWiki {
		return slices.Clone(blocks)
	}

	visible := make([]interfaces.Block, 0, len(blocks))
	for _, block := range blocks {
		if block.Kind != interfaces.BlockThreadOnly {
			visible = append(visible, block)
		}
	}
	slices.SortStableFunc(visible, func(a, b interfaces.Block) int {
		return wikiPriority[b.Kind] - wikiPriority[a.Kind]
	})
	return visible
}

// IsWikiVisible reports whether blocks hold any content worth a wiki entry.
func IsWikiVisible(blocks []interfaces.Block) bool {
	for _, block := range blocks {
		switch block.Kind {
		case interfaces.BlockWikiPrimary, interfaces.BlockConsensus, interfaces.BlockSynthesis:
			return true
		}
	}
	return false
}

// RenderText flattens the view of blocks into markdown. In wiki mode
// consensus, synthesis and debate blocks are prefixed with a bold annotation.
func RenderText(blocks []interfaces.Block, mode interfaces.ViewMode) string {
	return renderText(blocks, mode, true)
}

func renderText(blocks []interfaces.Block, mode interfaces.ViewMode, decorate bool) string {
	visible := RenderForView(blocks, mode)
	rendered := make([]string, 0, len(visible))
	for _, block := range visible {
		text := block.Content
		if decorate && mode == interfaces.ViewWiki {
			if note := annotation(block); note != "" {
				text = note + blockSeparator + text
			}
		}
		rendered = append(rendered, text)
	}
	return strings.Join(rendered, blockSeparator)
}

func annotation(block interfaces.Block) string {
	switch attrs := block.Attributes.(type) {
	case interfaces.ConsensusAttributes:
		return "**[Consensus: " + formatPercent(attrs.Level) + "%]**"
	case interfaces.SynthesisAttributes:
		return fmt.Sprintf("**[Synthesized from: %s]**", strings.Join(attrs.Sources, ", "))
	case interfaces.DebateAttributes:
		return fmt.Sprintf("**[Active Debate: %s]**", attrs.Topic)
	default:
		return ""
	}
}

// formatPercent renders a 0-1 level as a whole percentage without integer
// conversion, so out of range levels print as they are.
func formatPercent(level float64) string {
	return fmt.Sprintf("%.0f", math.Round(level*100))
}
