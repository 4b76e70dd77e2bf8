package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-wikithread/internal/markup"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

func TestRenderMarkdown_Thread(t *testing.T) {
	f := newFixture()
	got, err := NewService().RenderMarkdown(context.Background(), f.doc, interfaces.ViewConfig{Mode: interfaces.ViewThread})
	require.NoError(t, err)

	want := "# Policy\n\n" +
		"Working notes.\n\n" +
		"## Baseline\n\nAgreed baseline\n\n" +
		"### Scope\n\nToo narrow?\n\nside note\n\n" +
		"### Merged\n\nMerged view\n\n" +
		"## Plain\n\nplain text\n\n" +
		"## Costs\n\nHalf\n\nWho pays\n"
	require.Equal(t, want, got)
}

func TestRenderMarkdown_WikiWithMetadata(t *testing.T) {
	f := newFixture()
	got, err := NewService().RenderMarkdown(context.Background(), f.doc, interfaces.ViewConfig{
		Mode:         interfaces.ViewWiki,
		ShowMetadata: true,
	})
	require.NoError(t, err)

	want := "# Policy\n\n" +
		"Working notes.\n\n" +
		"## Plain\n\n_status: draft | votes: 3_\n\nplain text\n\n" +
		"## Baseline\n\n_status: consensus | consensus: 80% | votes: 1_\n\n**[Consensus: 80%]**\n\nAgreed baseline\n\n" +
		"## Merged\n\n_status: draft | votes: 9_\n\n**[Synthesized from: A, A1]**\n\nMerged view\n\n" +
		"## Costs\n\n_status: contested | consensus: 40% | votes: 0 | debating: Cost_\n\n" +
		"**[Consensus: 40%]**\n\nHalf\n\n**[Active Debate: Cost]**\n\nWho pays\n"
	require.Equal(t, want, got)
}

func TestRenderMarkdown_WithoutDecorations(t *testing.T) {
	f := newFixture()
	svc := NewService(WithMarkupService(markup.NewService(markup.WithWikiDecorations(false))))

	got, err := svc.RenderMarkdown(context.Background(), f.doc, interfaces.ViewConfig{Mode: interfaces.ViewWiki})
	require.NoError(t, err)
	require.NotContains(t, got, "**[")
	require.Contains(t, got, "## Costs\n\nHalf\n\nWho pays\n")
}

func TestRenderMarkdown_PromotionVotesInMetadata(t *testing.T) {
	f := newFixture()
	f.doc.Sections[0].Metadata.PromotionVotes = 2

	got, err := NewService().RenderMarkdown(context.Background(), f.doc, interfaces.ViewConfig{ShowMetadata: true})
	require.NoError(t, err)
	require.Contains(t, got, "_status: consensus | consensus: 80% | votes: 1 | promotion votes: 2_")
	require.Contains(t, got, "_status: active | votes: 5 | debating: Scope_")
}

func TestRenderHTML_SanitisesOutput(t *testing.T) {
	f := newFixture()
	f.doc.Sections[3].Content = "plain <script>alert(1)</script> text"

	html, err := NewService().RenderHTML(context.Background(), f.doc, interfaces.ViewConfig{Mode: interfaces.ViewWiki})
	require.NoError(t, err)

	out := string(html)
	require.Contains(t, out, "Policy</h1>")
	require.Contains(t, out, "<strong>[Consensus: 80%]</strong>")
	require.NotContains(t, out, "<script")
}

func TestRenderMarkdown_PropagatesConfigErrors(t *testing.T) {
	f := newFixture()
	_, err := NewService().RenderMarkdown(context.Background(), f.doc, interfaces.ViewConfig{Mode: "bogus"})
	require.ErrorIs(t, err, interfaces.ErrUnknownViewMode)

	_, err = NewService().RenderHTML(context.Background(), nil, interfaces.ViewConfig{})
	require.ErrorIs(t, err, ErrDocumentRequired)
}

func TestRenderMarkdown_OutOfRangeConsensusInMetadata(t *testing.T) {
	f := newFixture()
	f.doc.Sections[0].Content = "[!consensus: 99999999999999999999999%]Overflow[!end-consensus]"

	got, err := NewService().RenderMarkdown(context.Background(), f.doc, interfaces.ViewConfig{ShowMetadata: true})
	require.NoError(t, err)
	require.Contains(t, got, "_status: consensus | consensus: 99999999999999")
	require.NotContains(t, got, "consensus: -")
}
