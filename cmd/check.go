package cmd

import (
	"github.com/huangsam/covevo/core"
	"github.com/huangsam/covevo/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [input]",
	Short: "Fail the build when line coverage regressed (CI/CD gate)",
	Long: `Compare the line coverage of every file in the input, and of the project as a
whole, against the previous values recorded by the analysis server.

A finding is raised when the rounded current coverage is lower than the rounded
previous one. Files without a previous measure are skipped. The check is disabled
when the scan does not cover every project file.

Examples:
  # Check a Go coverprofile against the main branch
  covevo check coverage.out --server-url https://sonar.example.com --project-key org:proj --module-prefix github.com/org/proj

  # Check a manifest and write a JSON report
  covevo check covevo.yaml --output json --output-file report.json

  # Report without failing the build
  covevo check coverage.out --fail-on-regression=false`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		project, err := core.LoadProject(cfg)
		if err != nil {
			contract.LogFatal("Could not load input", err)
		}
		if cfg.ProjectKey == "" {
			cfg.ProjectKey = project.Key
		}
		if err := cfg.RequireRemote(); err != nil {
			contract.LogFatal("Invalid configuration", err)
		}
		client, err := newMeasuresClient()
		if err != nil {
			contract.LogFatal("Could not create measures client", err)
		}
		if err := core.ExecuteCoverageCheck(core.WithLogger(rootCtx, logger), cfg, client, project); err != nil {
			contract.LogFatal("Coverage check failed", err)
		}
	},
}
