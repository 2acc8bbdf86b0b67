package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bcfview/bcfview/internal/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			server, err := mcp.NewServer(cmd.Context(), version, a.log)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			return server.Run(cmd.Context())
		},
	}
}
