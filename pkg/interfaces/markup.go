package interfaces

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// BlockKind identifies the semantic role of a markup block.
type BlockKind string

const (
	BlockConsensus   BlockKind = "consensus"
	BlockDebate      BlockKind = "debate"
	BlockSynthesis   BlockKind = "synthesis"
	BlockWikiPrimary BlockKind = "wiki-primary"
	BlockThreadOnly  BlockKind = "thread-only"
)

// BlockKinds lists every kind a parser can emit, in tokenizer pass order.
func BlockKinds() []BlockKind {
	return []BlockKind{
		BlockConsensus,
		BlockDebate,
		BlockSynthesis,
		BlockWikiPrimary,
		BlockThreadOnly,
	}
}

// TagFamily names a recognised tag pair. It is a superset of BlockKind:
// logic-error tags are balanced by validation but never become blocks.
type TagFamily string

const (
	FamilyConsensus   TagFamily = "consensus"
	FamilyDebate      TagFamily = "debate"
	FamilySynthesis   TagFamily = "synthesis"
	FamilyWikiPrimary TagFamily = "wiki-primary"
	FamilyThreadOnly  TagFamily = "thread-only"
	FamilyLogicError  TagFamily = "logic-error"
)

// DebateStatusActive is the only debate status produced by the parser.
const DebateStatusActive = "active"

// BlockAttributes is the closed set of per-kind attribute payloads. Each
// implementation reports the block kind it belongs to.
type BlockAttributes interface {
	Kind() BlockKind
}

// ConsensusAttributes carries the normalised agreement level of a consensus block.
type ConsensusAttributes struct {
	Level float64 `json:"consensusLevel" yaml:"consensusLevel"`
}

func (ConsensusAttributes) Kind() BlockKind { return BlockConsensus }

// DebateAttributes carries the topic under debate.
type DebateAttributes struct {
	Topic  string `json:"debateTopic" yaml:"debateTopic"`
	Status string `json:"status" yaml:"status"`
}

func (DebateAttributes) Kind() BlockKind { return BlockDebate }

// SynthesisAttributes lists the sources a synthesis block was derived from.
type SynthesisAttributes struct {
	Sources []string `json:"sources" yaml:"sources"`
}

func (SynthesisAttributes) Kind() BlockKind { return BlockSynthesis }

// WikiPrimaryAttributes marks explicitly tagged wiki content. Priority is
// empty for the synthetic block produced when no tags match.
type WikiPrimaryAttributes struct {
	Priority string `json:"priority,omitempty" yaml:"priority,omitempty"`
}

func (WikiPrimaryAttributes) Kind() BlockKind { return BlockWikiPrimary }

// ThreadOnlyAttributes marks content excluded from the wiki view.
type ThreadOnlyAttributes struct {
	Visibility string `json:"visibility" yaml:"visibility"`
}

func (ThreadOnlyAttributes) Kind() BlockKind { return BlockThreadOnly }

// Block is a typed span of content extracted from raw text. Positions are
// character (rune) offsets of the full matched span, delimiters included.
type Block struct {
	Kind          BlockKind       `json:"type" yaml:"type"`
	Content       string          `json:"content" yaml:"content"`
	Attributes    BlockAttributes `json:"attributes" yaml:"attributes"`
	StartPosition int             `json:"startPosition" yaml:"startPosition"`
	EndPosition   int             `json:"endPosition" yaml:"endPosition"`
}

// ContentMetadata is the document-level summary computed while parsing.
type ContentMetadata struct {
	WikiVisibility  bool     `json:"wikiVisibility" yaml:"wikiVisibility"`
	ConsensusLevel  *float64 `json:"consensusLevel,omitempty" yaml:"consensusLevel,omitempty"`
	DebateStatus    string   `json:"debateStatus,omitempty" yaml:"debateStatus,omitempty"`
	SynthesisSource []string `json:"synthesisSource,omitempty" yaml:"synthesisSource,omitempty"`
	PromotionVotes  int      `json:"promotionVotes" yaml:"promotionVotes"`
}

// ParsedContent is the result of parsing a raw content string.
type ParsedContent struct {
	Blocks    []Block         `json:"blocks" yaml:"blocks"`
	PlainText string          `json:"plainText" yaml:"plainText"`
	Metadata  ContentMetadata `json:"metadata" yaml:"metadata"`
}

// ViewMetadata is derived on demand from a block list and drives section badges.
type ViewMetadata struct {
	HasConsensus    bool     `json:"hasConsensus" yaml:"hasConsensus"`
	HasActiveDebate bool     `json:"hasActiveDebate" yaml:"hasActiveDebate"`
	HasSynthesis    bool     `json:"hasSynthesis" yaml:"hasSynthesis"`
	WikiReady       bool     `json:"wikiReady" yaml:"wikiReady"`
	ConsensusLevel  *float64 `json:"consensusLevel,omitempty" yaml:"consensusLevel,omitempty"`
	DebateTopics    []string `json:"debateTopics,omitempty" yaml:"debateTopics,omitempty"`
	SynthesisSource []string `json:"synthesisSource,omitempty" yaml:"synthesisSource,omitempty"`
}

// ViewMode selects a presentation ordering.
type ViewMode string

const (
	ViewThread ViewMode = "thread"
	ViewWiki   ViewMode = "wiki"
)

// ErrUnknownViewMode is returned when a view mode string is not recognised.
var ErrUnknownViewMode = errors.New("wikithread: unknown view mode")

// ParseViewMode normalises a user supplied mode.
func ParseViewMode(value string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(value))) {
	case ViewThread:
		return ViewThread, nil
	case ViewWiki:
		return ViewWiki, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownViewMode, value)
	}
}

// ValidationResult reports advisory markup problems.
type ValidationResult struct {
	IsValid bool     `json:"isValid" yaml:"isValid"`
	Errors  []string `json:"errors" yaml:"errors"`
}

// ConvertOptions controls ConvertToMarkup.
type ConvertOptions struct {
	MakeWikiPrimary bool
}

// MarkupService exposes the parsing and projection engine. None of the
// operations fail on malformed input.
type MarkupService interface {
	Parse(ctx context.Context, content string) ParsedContent
	RenderForView(ctx context.Context, blocks []Block, mode ViewMode) []Block
	RenderText(ctx context.Context, blocks []Block, mode ViewMode) string
	IsWikiVisible(blocks []Block) bool
	ExtractMetadata(blocks []Block) ViewMetadata
	Validate(ctx context.Context, content string) ValidationResult
	Strip(content string) string
	Convert(text string, opts ConvertOptions) string
}
