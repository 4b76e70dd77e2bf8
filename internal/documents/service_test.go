package documents

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

var (
	alice = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	bob   = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
)

type fixture struct {
	doc             *interfaces.Document
	a, a1, a2, b, c uuid.UUID
}

// newFixture builds a document with two roots carrying replies and a third
// root holding both consensus and debate.
func newFixture() fixture {
	f := fixture{
		a:  uuid.MustParse("10000000-0000-0000-0000-000000000001"),
		a1: uuid.MustParse("10000000-0000-0000-0000-000000000002"),
		a2: uuid.MustParse("10000000-0000-0000-0000-000000000003"),
		b:  uuid.MustParse("10000000-0000-0000-0000-000000000004"),
		c:  uuid.MustParse("10000000-0000-0000-0000-000000000005"),
	}
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	wikiFirst := 1
	parent := f.a

	f.doc = &interfaces.Document{
		ID:          uuid.MustParse("20000000-0000-0000-0000-000000000001"),
		Title:       "Policy",
		Description: "Working notes.",
		AuthorID:    alice,
		Sections: []interfaces.Section{
			{
				ID:        f.a,
				AuthorID:  alice,
				Title:     "Baseline",
				Content:   "[!consensus: 80%]Agreed baseline[!end-consensus]",
				Position:  0,
				VoteScore: 1,
				UpdatedAt: base,
			},
			{
				ID:        f.a1,
				ParentID:  &parent,
				AuthorID:  bob,
				Title:     "Scope",
				Content:   "[!debate-active: Scope]Too narrow?[!end-debate] [!thread-only]side note[!end-thread-only]",
				Position:  0,
				VoteScore: 5,
				UpdatedAt: base.Add(3 * time.Hour),
			},
			{
				ID:        f.a2,
				ParentID:  &parent,
				AuthorID:  alice,
				Title:     "Merged",
				Content:   "[!synthesis from: A, A1]Merged view[!end-synthesis]",
				Position:  1,
				VoteScore: 9,
				UpdatedAt: base.Add(time.Hour),
			},
			{
				ID:        f.b,
				AuthorID:  bob,
				Title:     "Plain",
				Content:   "plain text",
				Position:  1,
				VoteScore: 3,
				UpdatedAt: base.Add(2 * time.Hour),
				Metadata:  interfaces.SectionMetadata{WikiPosition: &wikiFirst},
			},
			{
				ID:        f.c,
				AuthorID:  alice,
				Title:     "Costs",
				Content:   "[!consensus: 40%]Half[!end-consensus][!debate-active: Cost]Who pays[!end-debate]",
				Position:  2,
				UpdatedAt: base.Add(4 * time.Hour),
			},
		},
	}
	return f
}

func (f fixture) section(id uuid.UUID) interfaces.Section {
	for _, section := range f.doc.Sections {
		if section.ID == id {
			return section
		}
	}
	panic("unknown section " + id.String())
}

func TestAnalyzeSection_DebateWithThreadOnlyIsHiddenFromWiki(t *testing.T) {
	f := newFixture()
	svc := NewService()

	meta := svc.AnalyzeSection(f.doc, f.section(f.a1))

	require.False(t, meta.WikiVisibility)
	require.Equal(t, interfaces.SectionActive, meta.Status)
	require.Equal(t, []string{"debate", "thread-only"}, meta.MarkupTags)
	require.Equal(t, 1, meta.ThreadDepth)
	require.Nil(t, meta.ConsensusLevel)
}

func TestAnalyzeSection_Statuses(t *testing.T) {
	f := newFixture()
	svc := NewService()

	cases := map[uuid.UUID]interfaces.SectionStatus{
		f.a:  interfaces.SectionConsensus,
		f.a1: interfaces.SectionActive,
		f.a2: interfaces.SectionDraft,
		f.b:  interfaces.SectionDraft,
		f.c:  interfaces.SectionContested,
	}
	for id, want := range cases {
		meta := svc.AnalyzeSection(f.doc, f.section(id))
		require.Equal(t, want, meta.Status, "section %s", f.section(id).Title)
	}

	contested := svc.AnalyzeSection(f.doc, f.section(f.c))
	require.True(t, contested.WikiVisibility)
	require.NotNil(t, contested.ConsensusLevel)
	require.InDelta(t, 0.4, *contested.ConsensusLevel, 1e-9)
	require.Equal(t, []string{"consensus", "debate"}, contested.MarkupTags)
}

func TestAnalyzeSection_CarriesStoredFields(t *testing.T) {
	f := newFixture()
	svc := NewService()

	section := f.section(f.b)
	section.Metadata.PromotionVotes = 4

	meta := svc.AnalyzeSection(f.doc, section)
	require.Equal(t, 4, meta.PromotionVotes)
	require.NotNil(t, meta.WikiPosition)
	require.Equal(t, 1, *meta.WikiPosition)
	require.Equal(t, []string{"wiki-primary"}, meta.MarkupTags)
	require.True(t, meta.WikiVisibility)

	*section.Metadata.WikiPosition = 7
	require.Equal(t, 1, *meta.WikiPosition, "wiki position must be copied")
}

func TestAnalyzeSection_ThreadDepthSurvivesCycles(t *testing.T) {
	x := uuid.MustParse("30000000-0000-0000-0000-000000000001")
	y := uuid.MustParse("30000000-0000-0000-0000-000000000002")
	doc := &interfaces.Document{Sections: []interfaces.Section{
		{ID: x, ParentID: &y, Content: "x"},
		{ID: y, ParentID: &x, Content: "y"},
	}}

	meta := NewService().AnalyzeSection(doc, doc.Sections[0])
	require.Equal(t, 1, meta.ThreadDepth)
}

func TestPromote_MakesSectionWikiVisible(t *testing.T) {
	f := newFixture()
	svc := NewService()

	promoted, err := svc.Promote(f.doc, f.a1)
	require.NoError(t, err)
	require.True(t, promoted.Metadata.Promoted)
	require.True(t, promoted.Metadata.WikiVisibility)

	meta := svc.AnalyzeSection(f.doc, f.section(f.a1))
	require.True(t, meta.WikiVisibility)
	require.True(t, meta.Promoted)
}

func TestPromote_Errors(t *testing.T) {
	svc := NewService()

	_, err := svc.Promote(nil, uuid.New())
	require.ErrorIs(t, err, ErrDocumentRequired)
	require.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))

	f := newFixture()
	_, err = svc.Promote(f.doc, uuid.New())
	require.ErrorIs(t, err, ErrSectionNotFound)
	require.True(t, goerrors.IsCategory(err, goerrors.CategoryNotFound))
}

func TestService_UsesInjectedMarkupEngine(t *testing.T) {
	stub := &countingMarkup{MarkupService: NewService().markup}
	svc := NewService(WithMarkupService(stub))

	f := newFixture()
	_, err := svc.Project(context.Background(), f.doc, interfaces.ViewConfig{})
	require.NoError(t, err)
	require.Equal(t, len(f.doc.Sections), stub.parses)
}

type countingMarkup struct {
	interfaces.MarkupService
	parses int
}

func (c *countingMarkup) Parse(ctx context.Context, content string) interfaces.ParsedContent {
	c.parses++
	return c.MarkupService.Parse(ctx, content)
}
