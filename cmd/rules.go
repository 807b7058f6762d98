package cmd

import (
	"github.com/huangsam/covevo/core"
	"github.com/huangsam/covevo/internal/contract"
	"github.com/spf13/cobra"
)

// rulesCmd lists the coverage rule repositories.
var rulesCmd = &cobra.Command{
	Use:   "rules [input]",
	Short: "List the coverage evolution rules per language",
	Long: `Print one rule repository per language with its two rules: one for files and
one for the overall project. Languages come from the input, or Go when none is given.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRules(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list rules", err)
		}
	},
}
