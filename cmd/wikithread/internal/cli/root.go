package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-wikithread"
	"github.com/goliatone/go-wikithread/internal/di"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type app struct {
	v       *viper.Viper
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	cfgFile string
	output  string
	cfg     wikithread.Config
}

// NewRootCommand builds the wikithread command tree. Configuration is read
// from --config or ./.wikithread.yaml, then WIKITHREAD_* variables, then flags.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{
		v:      viper.New(),
		in:     in,
		out:    out,
		errOut: errOut,
	}

	root := &cobra.Command{
		Use:   "wikithread",
		Short: "Parse semantic discussion markup and render thread or wiki views",
		Long: `wikithread reads markdown discussions annotated with [!tag] markup.

The same document can be read as a thread, with every reply in tree order,
or as a wiki, with only the sections that carry settled content.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./.wikithread.yaml)")
	flags.StringVarP(&a.output, "output", "o", outputText, "output format: text, json or yaml")
	flags.String("base-path", "", "directory documents are resolved against")
	flags.String("log-level", "", "log level when logging is enabled")
	flags.BoolP("verbose", "v", false, "write diagnostic logs to stderr")

	_ = a.v.BindPFlag("documents.base_path", flags.Lookup("base-path"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("features.logger", flags.Lookup("verbose"))

	root.AddCommand(
		a.parseCommand(),
		a.validateCommand(),
		a.stripCommand(),
		a.convertCommand(),
		a.renderCommand(),
		a.listCommand(),
		a.inspectCommand(),
		a.configCommand(),
	)
	return root
}

func (a *app) module() (*wikithread.Module, error) {
	return wikithread.New(a.cfg, di.WithLogWriter(a.errOut))
}

func (a *app) outputFormat() (string, error) {
	format := strings.ToLower(strings.TrimSpace(a.output))
	switch format {
	case "", outputText:
		return outputText, nil
	case outputJSON, outputYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q", a.output)
	}
}

// readInput returns the content of the file named by args, or stdin when
// no file or "-" is given.
func (a *app) readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(a.in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}
