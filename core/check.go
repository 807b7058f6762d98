package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/internal/inputs"
	"github.com/huangsam/covevo/internal/outwriter"
	"github.com/huangsam/covevo/schema"
)

// ErrCoverageRegressed is returned by ExecuteCoverageCheck when findings exist
// and the configuration asks to fail on them.
var ErrCoverageRegressed = errors.New("line coverage regressed")

// PartialScanWarning is logged when the run does not cover every project file.
const PartialScanWarning = "Not scanning all files, coverage features will be unreliable and will be disabled"

// ShouldRun reports whether the regression evaluation may run at all.
// It needs at least one active coverage rule and a scan of the whole project.
func ShouldRun(rules RuleSet, active []schema.RuleKey, partialScan bool, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}
	if !rules.ShouldExecute(active) {
		logger.Info("No coverage evolution rule is active, skipping coverage checks")
		return false
	}
	if partialScan {
		logger.Warn(PartialScanWarning)
		return false
	}
	return true
}

// LoadProject reads the configured input and applies the configured project identity,
// which wins over the one found in a manifest.
func LoadProject(cfg *contract.Config) (schema.ProjectInput, error) {
	project, err := inputs.Load(cfg.InputPath, cfg.InputFormat, cfg.ModulePrefix)
	if err != nil {
		return schema.ProjectInput{}, err
	}
	if cfg.ProjectKey != "" {
		project.Key = cfg.ProjectKey
	}
	if cfg.Branch != "" {
		project.Branch = cfg.Branch
	}
	return project, nil
}

// RunCoverageCheck evaluates project against the previous measures of client.
// It returns a nil report when the execution gate keeps the evaluator from running.
func RunCoverageCheck(ctx context.Context, cfg *contract.Config, client contract.MeasurementClient, project schema.ProjectInput) (*schema.EvaluationReport, error) {
	builder := NewCheckRunBuilder(ctx, cfg, client, project)

	if _, err := builder.ValidatePrerequisites(); err != nil {
		return nil, err
	}
	if builder.GatedOff() {
		return nil, nil
	}

	builder.SelectFiles()
	builder.RunEvaluation()
	builder.BuildResult()
	return builder.GetResult(), nil
}

// ExecuteCoverageCheck runs the check command for CI/CD gating.
// It writes the report in the configured format and returns ErrCoverageRegressed
// when findings exist and FailOnRegression is set.
func ExecuteCoverageCheck(ctx context.Context, cfg *contract.Config, client contract.MeasurementClient, project schema.ProjectInput) error {
	report, err := RunCoverageCheck(ctx, cfg, client, project)
	if err != nil {
		return err
	}
	if report == nil {
		return nil
	}

	if err := outwriter.NewOutWriter().WriteReport(report, cfg); err != nil {
		return err
	}
	if cfg.FailOnRegression && !report.Passed {
		return fmt.Errorf("%w: %d finding(s)", ErrCoverageRegressed, len(report.Findings))
	}
	return nil
}
