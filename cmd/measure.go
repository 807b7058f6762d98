package cmd

import (
	"github.com/huangsam/covevo/core"
	"github.com/huangsam/covevo/internal/contract"
	"github.com/spf13/cobra"
)

// measureCmd prints one previous line coverage value.
var measureCmd = &cobra.Command{
	Use:   "measure [component]",
	Short: "Show the previous line coverage of a component",
	Long: `Fetch the line coverage recorded by the analysis server for one component key.
Without a component, the project key (and branch, when set) is used.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// The positional argument is a component key, not an input path
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		if cfg.ServerURL == "" {
			contract.LogFatal("Invalid configuration", cfg.RequireRemote())
		}
		client, err := newMeasuresClient()
		if err != nil {
			contract.LogFatal("Could not create measures client", err)
		}
		component := ""
		if len(args) == 1 {
			component = args[0]
		}
		if err := core.ExecuteMeasure(core.WithLogger(rootCtx, logger), cfg, client, component); err != nil {
			contract.LogFatal("Cannot fetch measure", err)
		}
	},
}
