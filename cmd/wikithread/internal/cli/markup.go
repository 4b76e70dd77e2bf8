package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-wikithread"
	markupcmd "github.com/goliatone/go-wikithread/internal/commands/markup"
)

// dispatch subscribes the module's command handlers, sends msg through the
// go-command dispatcher and releases the subscriptions again.
func (a *app) dispatch(ctx context.Context, module *wikithread.Module, msg any) error {
	registration, err := module.Commands(wikithread.CommandRegistrationOptions{
		Dispatcher: markupcmd.Dispatcher{},
	})
	if err != nil {
		return err
	}
	defer registration.Unsubscribe()

	switch m := msg.(type) {
	case markupcmd.ParseContentCommand:
		return dispatcher.Dispatch(ctx, m)
	case markupcmd.ValidateMarkupCommand:
		return dispatcher.Dispatch(ctx, m)
	case markupcmd.RenderDocumentCommand:
		return dispatcher.Dispatch(ctx, m)
	default:
		return fmt.Errorf("unsupported command %T", msg)
	}
}

func (a *app) parseCommand() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse markup and print the text of the requested view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			content, err := a.readInput(args)
			if err != nil {
				return err
			}
			module, err := a.module()
			if err != nil {
				return err
			}

			var result markupcmd.ParseResult
			err = a.dispatch(cmd.Context(), module, markupcmd.ParseContentCommand{
				Content: content,
				Mode:    wikithread.ViewMode(strings.ToLower(mode)),
				Result:  func(r markupcmd.ParseResult) { result = r },
			})
			if err != nil {
				return err
			}

			if format != outputText {
				return writeStructured(a.out, format, result)
			}
			return writeText(a.out, result.Text)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "view mode: thread or wiki (default thread)")
	return cmd
}

func (a *app) validateCommand() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Check tag balance and consensus percentages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			content, err := a.readInput(args)
			if err != nil {
				return err
			}
			module, err := a.module()
			if err != nil {
				return err
			}

			var result wikithread.ValidationResult
			dispatchErr := a.dispatch(cmd.Context(), module, markupcmd.ValidateMarkupCommand{
				Content: content,
				Strict:  strict,
				Result:  func(r wikithread.ValidationResult) { result = r },
			})

			if format != outputText {
				if err := writeStructured(a.out, format, result); err != nil {
					return err
				}
				return dispatchErr
			}
			if result.IsValid {
				if err := writeText(a.out, "valid"); err != nil {
					return err
				}
				return dispatchErr
			}
			for _, problem := range result.Errors {
				if err := writeText(a.out, problem); err != nil {
					return err
				}
			}
			return dispatchErr
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when the markup is invalid")
	return cmd
}

func (a *app) stripCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strip [file|-]",
		Short: "Remove every markup tag and print the remaining text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := a.readInput(args)
			if err != nil {
				return err
			}
			module, err := a.module()
			if err != nil {
				return err
			}
			return writeText(a.out, module.Strip(content))
		},
	}
}

func (a *app) convertCommand() *cobra.Command {
	var wikiPrimary bool
	cmd := &cobra.Command{
		Use:   "convert [file|-]",
		Short: "Wrap plain text in markup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := a.readInput(args)
			if err != nil {
				return err
			}
			module, err := a.module()
			if err != nil {
				return err
			}
			converted := module.Convert(strings.TrimRight(content, "\n"), wikithread.ConvertOptions{
				MakeWikiPrimary: wikiPrimary,
			})
			return writeText(a.out, converted)
		},
	}
	cmd.Flags().BoolVar(&wikiPrimary, "wiki-primary", false, "wrap the text in a wiki-primary block")
	return cmd
}
