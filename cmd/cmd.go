// Package cmd defines the command-line interface for covevo.
package cmd

import (
	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(measureCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("server-url", "", "Base URL of the analysis server")
	rootCmd.PersistentFlags().String("login", "", "Login or token for the analysis server")
	rootCmd.PersistentFlags().String("password", "", "Password for the analysis server (prefer COVEVO_PASSWORD)")
	rootCmd.PersistentFlags().String("project-key", "", "Project key on the analysis server (overrides the manifest)")
	rootCmd.PersistentFlags().String("branch", "", "Branch name used to build component keys")
	rootCmd.PersistentFlags().String("input", "", "Path to a Go coverprofile or a covevo manifest")
	rootCmd.PersistentFlags().String("input-format", string(schema.AutoInput), "Input format: auto or coverprofile or manifest")
	rootCmd.PersistentFlags().String("module-prefix", "", "Import path prefix stripped from coverprofile file names")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().StringP("filter", "f", "", "Only scan files under this path prefix (disables the check)")
	rootCmd.PersistentFlags().Bool("scan-all-files", true, "Whether the input covers every project file")
	rootCmd.PersistentFlags().String("rules", "", "Comma-separated active rule keys (default: all coverage rules)")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Timeout for each measure request")
	rootCmd.PersistentFlags().Int("retries", contract.DefaultRetries, "Extra attempts after a failed measure request (0 or 1)")
	rootCmd.PersistentFlags().Float64("rate-limit", 0, "Maximum measure requests per second (0 = unlimited)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: text or json")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Bool("fail-on-regression", true, "Exit non-zero when a coverage regression is found")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}
}
