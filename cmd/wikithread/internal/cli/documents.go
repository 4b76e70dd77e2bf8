package cli

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	markupcmd "github.com/goliatone/go-wikithread/internal/commands/markup"
)

type documentSummary struct {
	Path     string `json:"path" yaml:"path"`
	Title    string `json:"title" yaml:"title"`
	Sections int    `json:"sections" yaml:"sections"`
	Public   bool   `json:"public" yaml:"public"`
}

type sectionSummary struct {
	Anchor         string   `json:"anchor" yaml:"anchor"`
	Title          string   `json:"title" yaml:"title"`
	Depth          int      `json:"depth" yaml:"depth"`
	Status         string   `json:"status" yaml:"status"`
	ConsensusLevel *float64 `json:"consensus_level,omitempty" yaml:"consensus_level,omitempty"`
	WikiVisible    bool     `json:"wiki_visible" yaml:"wiki_visible"`
	Promoted       bool     `json:"promoted,omitempty" yaml:"promoted,omitempty"`
	Votes          int      `json:"votes" yaml:"votes"`
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (a *app) renderCommand() *cobra.Command {
	var (
		mode         string
		sortBy       string
		renderFormat string
		metadata     bool
		statuses     []string
		minConsensus float64
		author       string
	)
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render the thread or wiki view of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			module, err := a.module()
			if err != nil {
				return err
			}

			defaults := module.DefaultView()
			msg := markupcmd.RenderDocumentCommand{
				Path:         args[0],
				Mode:         strings.ToLower(firstNonEmpty(mode, string(defaults.Mode))),
				SortBy:       strings.ToLower(firstNonEmpty(sortBy, string(defaults.SortBy))),
				Format:       strings.ToLower(renderFormat),
				ShowMetadata: metadata,
				Statuses:     statuses,
				Author:       author,
			}
			if cmd.Flags().Changed("min-consensus") {
				msg.MinConsensus = &minConsensus
			}

			var result markupcmd.RenderResult
			msg.Result = func(r markupcmd.RenderResult) { result = r }
			if err := a.dispatch(cmd.Context(), module, msg); err != nil {
				return err
			}

			if format != outputText {
				return writeStructured(a.out, format, result.Projected)
			}
			_, err = a.out.Write(result.Output)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&mode, "mode", "", "view mode: thread or wiki (default from config)")
	flags.StringVar(&sortBy, "sort", "", "sibling order: position, votes or recent (default from config)")
	flags.StringVar(&renderFormat, "format", markupcmd.FormatMarkdown, "render format: markdown or html")
	flags.BoolVar(&metadata, "metadata", false, "add a status line under every section heading")
	flags.StringSliceVar(&statuses, "status", nil, "only keep sections with these statuses")
	flags.Float64Var(&minConsensus, "min-consensus", 0, "only keep sections at or above this consensus level (0-1)")
	flags.StringVar(&author, "author", "", "only keep sections written by this author")
	return cmd
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [dir]",
		Short: "List the documents found under the base path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			module, err := a.module()
			if err != nil {
				return err
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			docs, err := module.LoadDirectory(cmd.Context(), dir)
			if err != nil {
				return err
			}

			summaries := make([]documentSummary, 0, len(docs))
			for _, doc := range docs {
				summaries = append(summaries, documentSummary{
					Path:     doc.FilePath,
					Title:    doc.Title,
					Sections: len(doc.Sections),
					Public:   doc.IsPublic,
				})
			}
			if format != outputText {
				return writeStructured(a.out, format, summaries)
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tTITLE\tSECTIONS")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Path, s.Title, s.Sections)
			}
			return tw.Flush()
		},
	}
}

func (a *app) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the derived status and visibility of every section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			module, err := a.module()
			if err != nil {
				return err
			}
			doc, err := module.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			summaries := make([]sectionSummary, 0, len(doc.Sections))
			for _, section := range doc.Sections {
				meta := module.Documents().AnalyzeSection(doc, section)
				summaries = append(summaries, sectionSummary{
					Anchor:         section.Anchor,
					Title:          section.Title,
					Depth:          meta.ThreadDepth,
					Status:         string(meta.Status),
					ConsensusLevel: meta.ConsensusLevel,
					WikiVisible:    meta.WikiVisibility,
					Promoted:       meta.Promoted,
					Votes:          section.VoteScore,
					Tags:           meta.MarkupTags,
				})
			}
			if format != outputText {
				return writeStructured(a.out, format, summaries)
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SECTION\tSTATUS\tCONSENSUS\tWIKI\tVOTES")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s%s\t%s\t%s\t%t\t%d\n",
					strings.Repeat("  ", s.Depth), s.Title, s.Status, formatConsensus(s.ConsensusLevel), s.WikiVisible, s.Votes)
			}
			return tw.Flush()
		},
	}
}

func formatConsensus(level *float64) string {
	if level == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", int(math.Round(*level*100)))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
