package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const docsDir = "testdata/docs"

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestParseReadsStdinForWikiView(t *testing.T) {
	input := "[!consensus: 70%]Yes[!end-consensus] [!thread-only]aside[!end-thread-only]"

	out, _, err := run(t, input, "parse", "--mode", "wiki")
	require.NoError(t, err)
	require.Contains(t, out, "**[Consensus: 70%]**")
	require.Contains(t, out, "Yes")
	require.NotContains(t, out, "aside")

	out, _, err = run(t, input, "parse")
	require.NoError(t, err)
	require.Contains(t, out, "aside")
}

func TestParseStructuredOutput(t *testing.T) {
	out, _, err := run(t, "[!wiki-primary]Summary[!end-wiki-primary]", "parse", "-o", "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, true, decoded["wikiVisible"])
	require.Equal(t, "thread", decoded["mode"])
	require.Equal(t, "Summary", decoded["text"])
}

func TestParseRejectsUnknownMode(t *testing.T) {
	_, _, err := run(t, "text", "parse", "--mode", "timeline")
	require.Error(t, err)
}

func TestValidateReportsProblems(t *testing.T) {
	out, _, err := run(t, "[!consensus: 150%]sure[!end-consensus]", "validate")
	require.NoError(t, err)
	require.Contains(t, out, "Invalid consensus percentage")

	out, _, err = run(t, "[!consensus: 150%]sure[!end-consensus]", "validate", "--strict")
	require.Error(t, err)
	require.Contains(t, out, "Invalid consensus percentage")

	out, _, err = run(t, "[!wiki-primary]ok[!end-wiki-primary]", "validate", "--strict")
	require.NoError(t, err)
	require.Equal(t, "valid\n", out)
}

func TestStripReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("a [!debate-active: X]b[!end-debate] c"), 0o644))

	out, _, err := run(t, "", "strip", path)
	require.NoError(t, err)
	require.Equal(t, "a b c\n", out)
}

func TestConvertWrapsWikiPrimary(t *testing.T) {
	out, _, err := run(t, "Hello\n", "convert", "--wiki-primary")
	require.NoError(t, err)
	require.Equal(t, "[!wiki-primary]\nHello\n[!end-wiki-primary]\n", out)

	out, _, err = run(t, "Hello\n", "convert")
	require.NoError(t, err)
	require.Equal(t, "Hello\n", out)
}

func TestRenderWikiWithMetadata(t *testing.T) {
	out, _, err := run(t, "", "--base-path", docsDir, "render", "budget.md", "--mode", "wiki", "--metadata")
	require.NoError(t, err)
	require.Contains(t, out, "# Budget")
	require.Contains(t, out, "## Spending\n\n_status: consensus | consensus: 60% | votes: 4_")
	require.NotContains(t, out, "Lunch?")
}

func TestRenderFilters(t *testing.T) {
	out, _, err := run(t, "", "--base-path", docsDir, "render", "budget.md", "--min-consensus", "0.5")
	require.NoError(t, err)
	require.Contains(t, out, "## Spending")
	require.NotContains(t, out, "## Aside")

	out, _, err = run(t, "", "--base-path", docsDir, "render", "budget.md", "--status", "draft")
	require.NoError(t, err)
	require.Contains(t, out, "## Aside")
	require.NotContains(t, out, "## Spending")

	out, _, err = run(t, "", "--base-path", docsDir, "render", "budget.md", "--author", "bob")
	require.NoError(t, err)
	require.NotContains(t, out, "## ")
}

func TestRenderHTML(t *testing.T) {
	out, _, err := run(t, "", "--base-path", docsDir, "render", "budget.md", "--format", "html")
	require.NoError(t, err)
	require.Contains(t, out, "Budget</h1>")
	require.Contains(t, out, "Lunch?")
}

func TestRenderRejectsInvalidOptions(t *testing.T) {
	_, _, err := run(t, "", "--base-path", docsDir, "render", "budget.md", "--sort", "oldest")
	require.Error(t, err)

	_, _, err = run(t, "", "--base-path", docsDir, "render", "missing.md")
	require.Error(t, err)
}

func TestRenderUsesEnvironmentDefaults(t *testing.T) {
	t.Setenv("WIKITHREAD_DOCUMENTS_DEFAULT_MODE", "wiki")

	out, _, err := run(t, "", "--base-path", docsDir, "render", "budget.md")
	require.NoError(t, err)
	require.NotContains(t, out, "Lunch?")
}

func TestRenderStructuredProjection(t *testing.T) {
	out, _, err := run(t, "", "--base-path", docsDir, "-o", "yaml", "render", "budget.md", "--mode", "wiki")
	require.NoError(t, err)
	require.Contains(t, out, "omitted: 1")
}

func TestListDocuments(t *testing.T) {
	out, _, err := run(t, "", "--base-path", docsDir, "list", "-o", "json")
	require.NoError(t, err)

	var docs []documentSummary
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	require.Equal(t, "budget.md", docs[0].Path)
	require.Equal(t, "Roadmap", docs[1].Title)

	out, _, err = run(t, "", "--base-path", docsDir, "list")
	require.NoError(t, err)
	require.Contains(t, out, "PATH")
	require.Contains(t, out, "roadmap.md")
}

func TestInspectSections(t *testing.T) {
	out, _, err := run(t, "", "--base-path", docsDir, "inspect", "budget.md")
	require.NoError(t, err)
	require.Contains(t, out, "Spending")
	require.Contains(t, out, "60%")

	out, _, err = run(t, "", "--base-path", docsDir, "-o", "json", "inspect", "budget.md")
	require.NoError(t, err)
	var sections []sectionSummary
	require.NoError(t, json.Unmarshal([]byte(out), &sections))
	require.Len(t, sections, 2)
	require.Equal(t, "consensus", sections[0].Status)
	require.False(t, sections[1].WikiVisible)
}

func TestConfigShowReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikithread.yaml")
	require.NoError(t, os.WriteFile(path, []byte("documents:\n  heading_level: 3\n  default_sort: votes\n"), 0o644))

	out, _, err := run(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "heading_level: 3")
	require.Contains(t, out, "default_sort: votes")
	require.Contains(t, out, "pattern: '*.md'")
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikithread.yaml")
	require.NoError(t, os.WriteFile(path, []byte("documents:\n  heading_level: 9\n"), 0o644))

	_, _, err := run(t, "", "--config", path, "config", "show")
	require.Error(t, err)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, _, err := run(t, "x", "-o", "xml", "parse")
	require.Error(t, err)
}

func TestVerboseWritesLogsToStderr(t *testing.T) {
	_, logs, err := run(t, "plain", "-v", "--log-level", "debug", "parse")
	require.NoError(t, err)
	require.Contains(t, logs, "markup.service.parse_completed")
}
