package commands

import (
	"github.com/erraggy/openapix/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: "Run a Model Context Protocol server on stdin/stdout exposing the document tools " +
			"(schema_get, schema_set, schema_inject, schema_reject, schema_reject_deep, apigw_synthesize, schema_validate). " +
			"Defaults are configured with OPENAPIX_* environment variables.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}
