package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/schema"
)

// Subject used in messages for the project-wide finding.
const projectSubject = "the project"

// Evaluator compares current line coverage against the previous values held
// by the remote server. One Evaluator serves exactly one analysis run: every
// file goes through EvaluateFile before EvaluateProject is called once.
type Evaluator struct {
	client contract.MeasurementClient
	rules  RuleSet
	store  *ProjectStore
	logger *slog.Logger

	calls       int
	skipped     int
	projectPrev *float64
	projectCurr float64
}

// NewEvaluator creates an evaluator for one run. A nil logger uses slog.Default().
func NewEvaluator(client contract.MeasurementClient, rules RuleSet, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		client: client,
		rules:  rules,
		store:  NewProjectStore(logger),
		logger: logger,
	}
}

// EvaluateFile adds the file counters to the project totals and returns a
// finding when its coverage dropped below the previous value.
// The file component is used as the remote key, falling back to its path.
func (e *Evaluator) EvaluateFile(ctx context.Context, f schema.FileInput) *schema.RegressionFinding {
	if f.Counters == nil {
		e.skipped++
		e.logger.Warn(fmt.Sprintf("Could not retrieve measure of %s for %s", schema.LinesToCoverMetric, f.Path),
			"path", f.Path)
		return nil
	}

	if err := e.store.Add(*f.Counters); err != nil {
		e.logger.Debug("Project totals were already computed", "path", f.Path, "error", err)
	}

	component := f.Component
	if component == "" {
		component = f.Path
	}
	previous, ok := e.fetch(ctx, component)
	if !ok {
		return nil
	}

	current := CoverageRatio(f.Counters.LinesToCover, f.Counters.UncoveredLines)
	e.logger.Debug("Previous/current file coverage",
		"path", f.Path, "previous", previous, "current", current)

	if !RoundedGreaterThan(previous, current) {
		return nil
	}
	subject := "file " + f.Path
	return &schema.RegressionFinding{
		Kind:      schema.FileFinding,
		Subject:   subject,
		Path:      f.Path,
		Component: component,
		Language:  f.Language,
		Previous:  previous,
		Current:   current,
		Rule:      e.rules.FileRule(f.Language),
		Message:   FormatMessage(subject, previous, current),
	}
}

// EvaluateProject finalizes the project totals and returns a finding when the
// project coverage dropped. files selects the dominant language for the rule.
func (e *Evaluator) EvaluateProject(ctx context.Context, component string, files []schema.FileInput) *schema.RegressionFinding {
	previous, ok := e.fetch(ctx, component)
	current := e.store.Finalize()
	e.projectCurr = current
	if !ok {
		return nil
	}
	e.projectPrev = &previous
	e.logger.Debug("Previous/current project coverage",
		"component", component, "previous", previous, "current", current)

	if !RoundedGreaterThan(previous, current) {
		return nil
	}
	rule, ok := e.rules.ProjectRule(files, e.logger)
	if !ok {
		return nil
	}
	lang, _ := DominantLanguage(files)
	return &schema.RegressionFinding{
		Kind:      schema.ProjectFinding,
		Subject:   projectSubject,
		Component: component,
		Language:  lang,
		Previous:  previous,
		Current:   current,
		Rule:      rule,
		Message:   FormatMessage(projectSubject, previous, current),
	}
}

func (e *Evaluator) fetch(ctx context.Context, component string) (float64, bool) {
	e.calls++
	return e.client.FetchMeasurement(ctx, schema.MeasurementKey{
		Component: component,
		Metric:    schema.LineCoverageMetric,
	})
}

// Calls returns how many measures were requested from the client.
func (e *Evaluator) Calls() int { return e.calls }

// Skipped returns how many files had no counters.
func (e *Evaluator) Skipped() int { return e.skipped }

// Store exposes the project accumulator.
func (e *Evaluator) Store() *ProjectStore { return e.store }

// ProjectCoverage returns the previous project coverage (nil when unknown)
// and the current one. Both are only set after EvaluateProject.
func (e *Evaluator) ProjectCoverage() (*float64, float64) {
	return e.projectPrev, e.projectCurr
}

// FormatMessage renders the issue message for a coverage decrease.
func FormatMessage(subject string, previous, current float64) string {
	return fmt.Sprintf("Line coverage of %s lowered from %s%% to %s%%.",
		subject, FormatPercentage(previous), FormatPercentage(current))
}
