package markup

import (
	"slices"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// ExtractMetadata derives section badges from a block list. Unlike the
// parse-time metadata, the consensus level and synthesis sources are the
// last ones seen, and debate topics accumulate across blocks. Blocks without
// attributes are ignored.
func ExtractMetadata(blocks []interfaces.Block) interfaces.ViewMetadata {
	var metadata interfaces.ViewMetadata

	for _, block := range blocks {
		if block.Attributes == nil {
			continue
		}
		switch block.Kind {
		case interfaces.BlockConsensus:
			metadata.HasConsensus = true
			level := 0.0
			if attrs, ok := block.Attributes.(interfaces.ConsensusAttributes); ok {
				level = attrs.Level
			}
			metadata.ConsensusLevel = &level
		case interfaces.BlockDebate:
			metadata.HasActiveDebate = true
			topic := ""
			if attrs, ok := block.Attributes.(interfaces.DebateAttributes); ok {
				topic = attrs.Topic
			}
			metadata.DebateTopics = append(metadata.DebateTopics, topic)
		case interfaces.BlockSynthesis:
			metadata.HasSynthesis = true
			var sources []string
			if attrs, ok := block.Attributes.(interfaces.SynthesisAttributes); ok {
				sources = slices.Clone(attrs.Sources)
			}
			metadata.SynthesisSource = sources
		case interfaces.BlockWikiPrimary:
			metadata.WikiReady = true
		}
	}

	return metadata
}
