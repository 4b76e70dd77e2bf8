package interfaces

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SectionStatus summarises the discussion state of a section.
type SectionStatus string

const (
	SectionDraft     SectionStatus = "draft"
	SectionActive    SectionStatus = "active"
	SectionConsensus SectionStatus = "consensus"
	SectionContested SectionStatus = "contested"
)

// SectionMetadata is derived from section content plus the stored
// placement/vote fields the markup cannot express. Promoted sections are
// wiki visible whatever their markup says.
type SectionMetadata struct {
	WikiVisibility bool          `json:"wikiVisibility" yaml:"wikiVisibility"`
	WikiPosition   *int          `json:"wikiPosition,omitempty" yaml:"wikiPosition,omitempty"`
	ConsensusLevel *float64      `json:"consensusLevel,omitempty" yaml:"consensusLevel,omitempty"`
	PromotionVotes int           `json:"promotionVotes" yaml:"promotionVotes"`
	Promoted       bool          `json:"promoted,omitempty" yaml:"promoted,omitempty"`
	Status         SectionStatus `json:"status" yaml:"status"`
	MarkupTags     []string      `json:"markupTags" yaml:"markupTags"`
	ThreadDepth    int           `json:"threadDepth" yaml:"threadDepth"`
}

// Section is one discussion entry of a document. Content holds raw markup.
type Section struct {
	ID         uuid.UUID       `json:"id" yaml:"id"`
	DocumentID uuid.UUID       `json:"documentId" yaml:"documentId"`
	ParentID   *uuid.UUID      `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	AuthorID   uuid.UUID       `json:"authorId" yaml:"authorId"`
	Title      string          `json:"title,omitempty" yaml:"title,omitempty"`
	Anchor     string          `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Content    string          `json:"content" yaml:"content"`
	Position   int             `json:"position" yaml:"position"`
	VoteScore  int             `json:"voteScore" yaml:"voteScore"`
	UpdatedAt  time.Time       `json:"updatedAt" yaml:"updatedAt"`
	Metadata   SectionMetadata `json:"metadata" yaml:"metadata"`
}

// Document groups ordered sections under a title.
type Document struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	AuthorID    uuid.UUID `json:"authorId" yaml:"authorId"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	IsPublic    bool      `json:"isPublic" yaml:"isPublic"`
	FilePath    string    `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// SortKey orders sections within a projection.
type SortKey string

const (
	SortByPosition SortKey = "position"
	SortByVotes    SortKey = "votes"
	SortByRecent   SortKey = "recent"
)

// ErrUnknownSortKey is returned when a sort key is not recognised.
var ErrUnknownSortKey = errors.New("wikithread: unknown sort key")

// ParseSortKey normalises a user supplied sort key. Empty means position.
func ParseSortKey(value string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(value))) {
	case "", SortByPosition:
		return SortByPosition, nil
	case SortByVotes:
		return SortByVotes, nil
	case SortByRecent:
		return SortByRecent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, value)
	}
}

// SectionFilter narrows the sections included in a projection.
type SectionFilter struct {
	Statuses     []SectionStatus
	MinConsensus *float64
	AuthorID     *uuid.UUID
}

// ViewConfig controls how a document is projected.
type ViewConfig struct {
	Mode         ViewMode
	ShowMetadata bool
	SortBy       SortKey
	Filter       SectionFilter
}

// ProjectedSection is a section prepared for one view mode.
type ProjectedSection struct {
	Section Section       `json:"section" yaml:"section"`
	Parsed  ParsedContent `json:"parsed" yaml:"parsed"`
	Blocks  []Block       `json:"blocks" yaml:"blocks"`
	Badges  ViewMetadata  `json:"badges" yaml:"badges"`
	Depth   int           `json:"depth" yaml:"depth"`
}

// ProjectedDocument is a document prepared for one view mode.
type ProjectedDocument struct {
	Document Document           `json:"document" yaml:"document"`
	Mode     ViewMode           `json:"mode" yaml:"mode"`
	Sections []ProjectedSection `json:"sections" yaml:"sections"`
	Omitted  int                `json:"omitted" yaml:"omitted"`
}

// DocumentService projects documents into thread or wiki views.
type DocumentService interface {
	AnalyzeSection(doc *Document, section Section) SectionMetadata
	Project(ctx context.Context, doc *Document, cfg ViewConfig) (*ProjectedDocument, error)
	RenderMarkdown(ctx context.Context, doc *Document, cfg ViewConfig) (string, error)
	RenderHTML(ctx context.Context, doc *Document, cfg ViewConfig) ([]byte, error)
	Promote(doc *Document, sectionID uuid.UUID) (*Section, error)
}

// DocumentLoader builds documents from markdown files with front matter.
type DocumentLoader interface {
	LoadFile(ctx context.Context, path string) (*Document, error)
	LoadDocument(ctx context.Context, path string, source []byte) (*Document, error)
}
