package cmd

import (
	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the covevo MCP server",
	Long:    `Launch an MCP server that allows AI agents to check coverage regressions via standard tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Only the check tool needs a server, so a missing URL is not fatal here
		var client contract.MeasurementClient
		if cfg.ServerURL != "" {
			c, err := newMeasuresClient()
			if err != nil {
				return err
			}
			client = c
		}
		return mcp.StartMCPServer(rootCtx, cfg, client)
	},
}
