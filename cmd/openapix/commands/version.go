package commands

import (
	"github.com/erraggy/openapix"
	"github.com/erraggy/openapix/internal/cliutil"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if long {
				cliutil.Writef(cmd.OutOrStdout(), "%s\n", openapix.BuildInfo())
				return nil
			}
			cliutil.Writef(cmd.OutOrStdout(), "openapix %s\n", openapix.Version())
			return nil
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Include commit, build time and Go version")
	return cmd
}
