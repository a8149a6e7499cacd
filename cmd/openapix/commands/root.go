// Package commands implements the openapix command-line interface.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Execute runs the openapix CLI with os.Args. The context is cancelled on
// SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "openapix",
		Short: "Edit OpenAPI documents by path and add API Gateway extensions",
		Long: "openapix reads an OpenAPI document (YAML or JSON), reads or edits it by dotted path, " +
			"adds Amazon API Gateway x-amazon-apigateway-* extensions and writes or uploads the result. " +
			"Key order and formatting of the source are preserved.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.output, "output", "o", "", "Write the document to this file instead of stdout")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format: yaml or json (defaults to the source format)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress diagnostic output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	for _, sub := range []*cobra.Command{
		newGetCmd(opts),
		newHasCmd(opts),
		newSetCmd(opts),
		newInjectCmd(opts),
		newRejectCmd(opts),
		newRejectDeepCmd(opts),
		newSynthCmd(opts),
		newValidateCmd(opts),
		newUploadCmd(opts),
		newMCPCmd(),
		newVersionCmd(),
	} {
		cmd.AddCommand(sub)
	}

	setUsageErrors(cmd)
	return cmd
}

// setUsageErrors converts flag and argument errors into usage errors that
// carry the command's help text, for cmd and all of its subcommands.
func setUsageErrors(cmd *cobra.Command) {
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	})
	if args := cmd.Args; args != nil {
		cmd.Args = func(c *cobra.Command, a []string) error {
			if err := args(c, a); err != nil {
				return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
			}
			return nil
		}
	}
	for _, sub := range cmd.Commands() {
		setUsageErrors(sub)
	}
}
