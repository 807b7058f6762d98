package contract

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/covevo/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	DefaultTimeout   = 30 * time.Second
	DefaultRetries   = 1
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// DefaultExcludes are the path patterns never handed to the evaluator.
var DefaultExcludes = []string{
	"*_test.go",
	"vendor/",
	"testdata/",
	".pb.go",
	"_mock.go",
}

// validate is the shared struct validator for raw inputs.
var validate = validator.New()

// Config holds the runtime configuration for a coverage check.
// This struct is the "final, validated" config.
type Config struct {
	InputPath    string
	InputFormat  schema.InputFormat
	ModulePrefix string

	ServerURL string
	Login     string
	Password  string // Please use env var as this is plaintext

	ProjectKey string
	Branch     string

	PathFilter   string
	Excludes     []string
	ScanAllFiles bool

	// ActiveRules lists the enabled rule keys. Empty means every coverage rule
	// for every language found in the input.
	ActiveRules []schema.RuleKey

	Timeout   time.Duration
	Retries   int
	RateLimit float64 // Requests per second, 0 disables pacing

	Output           schema.OutputMode
	OutputFile       string
	Precision        int
	Width            int // Terminal width override (0 = auto-detect)
	UseColors        bool
	FailOnRegression bool

	LogLevel  slog.Level
	LogFormat string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Input        string  `mapstructure:"input"`
	InputFormat  string  `mapstructure:"input-format"`
	ModulePrefix string  `mapstructure:"module-prefix"`
	ServerURL    string  `mapstructure:"server-url" validate:"omitempty,url"`
	Login        string  `mapstructure:"login"`
	Password     string  `mapstructure:"password"`
	ProjectKey   string  `mapstructure:"project-key"`
	Branch       string  `mapstructure:"branch"`
	Exclude      string  `mapstructure:"exclude"`
	Filter       string  `mapstructure:"filter"`
	ScanAllFiles bool    `mapstructure:"scan-all-files"`
	Rules        string  `mapstructure:"rules"`
	Timeout      string  `mapstructure:"timeout"`
	Retries      int     `mapstructure:"retries" validate:"min=0,max=1"`
	RateLimit    float64 `mapstructure:"rate-limit" validate:"gte=0"`
	Output       string  `mapstructure:"output"`
	OutputFile   string  `mapstructure:"output-file"`
	Precision    int     `mapstructure:"precision"`
	Width        int     `mapstructure:"width" validate:"gte=0"`
	Color        string  `mapstructure:"color"`
	LogLevel     string  `mapstructure:"log-level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat    string  `mapstructure:"log-format" validate:"omitempty,oneof=text json"`

	// --- Fields from checkCmd.Flags() ---
	FailOnRegression bool `mapstructure:"fail-on-regression"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Excludes = slices.Clone(c.Excludes)
	clone.ActiveRules = slices.Clone(c.ActiveRules)
	return &clone
}

// IsPartialScan reports whether only a subset of the project files is scanned.
func (c *Config) IsPartialScan() bool {
	return !c.ScanAllFiles || c.PathFilter != ""
}

// RequireRemote checks the settings needed to talk to the analysis server.
func (c *Config) RequireRemote() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server-url is required. Example: covevo check --server-url https://sonar.example.com --project-key my:project")
	}
	if c.ProjectKey == "" {
		return fmt.Errorf("project-key is required to build component keys")
	}
	return nil
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateStruct(input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processRemote(cfg, input); err != nil {
		return err
	}
	if err := processActiveRules(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateStruct runs the tag based checks and flattens the validator errors.
func validateStruct(input *ConfigRawInput) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.Field(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

// validateSimpleInputs processes and validates all input, output and path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.ModulePrefix = input.ModulePrefix
	cfg.ProjectKey = strings.TrimSpace(input.ProjectKey)
	cfg.Branch = strings.TrimSpace(input.Branch)
	cfg.PathFilter = input.Filter
	cfg.ScanAllFiles = input.ScanAllFiles
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.FailOnRegression = input.FailOnRegression

	// Positional argument wins over the config key
	cfg.InputPath = input.InputPathStr
	if cfg.InputPath == "" {
		cfg.InputPath = input.Input
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Input format ---
	cfg.InputFormat = schema.InputFormat(strings.ToLower(input.InputFormat))
	if cfg.InputFormat == "" {
		cfg.InputFormat = schema.AutoInput
	}
	if _, ok := schema.ValidInputFormats[cfg.InputFormat]; !ok {
		return fmt.Errorf("invalid input format '%s'. must be auto, coverprofile, manifest", input.InputFormat)
	}

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Logging ---
	level, err := ParseLogLevel(input.LogLevel)
	if err != nil {
		return err
	}
	cfg.LogLevel = level
	cfg.LogFormat = input.LogFormat
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}

	// --- 4. Excludes Processing ---
	cfg.Excludes = slices.Clone(DefaultExcludes)
	cfg.Excludes = append(cfg.Excludes, SplitList(input.Exclude)...)

	return nil
}

// processRemote handles the server connection settings.
func processRemote(cfg *Config, input *ConfigRawInput) error {
	cfg.ServerURL = strings.TrimRight(strings.TrimSpace(input.ServerURL), "/")
	cfg.Login = input.Login
	cfg.Password = input.Password
	cfg.Retries = input.Retries
	cfg.RateLimit = input.RateLimit

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", input.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout must be greater than 0 (received %s)", input.Timeout)
		}
		cfg.Timeout = d
	}
	return nil
}

// processActiveRules parses the comma-separated list of active rule keys.
func processActiveRules(cfg *Config, input *ConfigRawInput) error {
	cfg.ActiveRules = nil
	for _, part := range SplitList(input.Rules) {
		key, err := schema.ParseRuleKey(part)
		if err != nil {
			return fmt.Errorf("invalid --rules value: %w", err)
		}
		if !slices.Contains(cfg.ActiveRules, key) {
			cfg.ActiveRules = append(cfg.ActiveRules, key)
		}
	}
	return nil
}

// SplitList splits a comma-separated value and drops empty entries.
func SplitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
