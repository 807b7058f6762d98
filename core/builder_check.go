package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/schema"
)

// CheckRunBuilder builds the evaluation report using a builder pattern.
type CheckRunBuilder struct {
	ctx     context.Context
	cfg     *contract.Config
	client  contract.MeasurementClient
	rules   RuleSet
	logger  *slog.Logger
	project schema.ProjectInput
	start   time.Time

	active    []schema.RuleKey
	files     []schema.FileInput
	excluded  int
	evaluator *Evaluator
	findings  []schema.RegressionFinding
	gatedOff  bool
	result    *schema.EvaluationReport
}

// NewCheckRunBuilder creates a new builder for one check run over project.
func NewCheckRunBuilder(ctx context.Context, cfg *contract.Config, client contract.MeasurementClient, project schema.ProjectInput) *CheckRunBuilder {
	logger := loggerFrom(ctx)
	return &CheckRunBuilder{
		ctx:     ctx,
		cfg:     cfg,
		client:  client,
		rules:   DefaultRuleSet(),
		logger:  logger,
		project: project,
		start:   time.Now(),
	}
}

// ValidatePrerequisites resolves the active rules and applies the execution gate.
// When the gate is closed the builder is marked as skipped and no remote call is made.
func (b *CheckRunBuilder) ValidatePrerequisites() (*CheckRunBuilder, error) {
	if b.project.Key == "" && b.project.Component == "" {
		return nil, fmt.Errorf("project-key is required to build component keys. Set --project-key or project.key in the manifest")
	}

	b.active = b.cfg.ActiveRules
	if len(b.active) == 0 {
		b.active = b.rules.AllRules(b.project.Languages())
	}

	if !ShouldRun(b.rules, b.active, b.cfg.IsPartialScan(), b.logger) {
		b.gatedOff = true
	}
	return b, nil
}

// SelectFiles drops excluded files and assigns each remaining file its component key.
func (b *CheckRunBuilder) SelectFiles() *CheckRunBuilder {
	b.files = make([]schema.FileInput, 0, len(b.project.Files))
	for _, f := range b.project.Files {
		if contract.ShouldIgnore(f.Path, b.cfg.Excludes) {
			b.excluded++
			b.logger.Debug("Excluded from coverage evolution", "path", f.Path)
			continue
		}
		f.Component = ComputeEffectiveKey(f.Component, b.project.Key, b.project.Branch, f.Path)
		b.files = append(b.files, f)
	}
	return b
}

// RunEvaluation drives every selected file through the evaluator, then the project.
func (b *CheckRunBuilder) RunEvaluation() *CheckRunBuilder {
	b.evaluator = NewEvaluator(b.client, b.rules, b.logger)
	for _, f := range b.files {
		if finding := b.evaluator.EvaluateFile(b.ctx, f); finding != nil {
			b.keep(*finding)
		}
	}

	projectComponent := ComputeEffectiveKey(b.project.Component, b.project.Key, b.project.Branch, "")
	if finding := b.evaluator.EvaluateProject(b.ctx, projectComponent, b.files); finding != nil {
		b.keep(*finding)
	}
	return b
}

// keep records a finding when its rule is active.
func (b *CheckRunBuilder) keep(f schema.RegressionFinding) {
	if !IsActive(f.Rule, b.active) {
		b.logger.Debug("Dropping finding of inactive rule", "rule", f.Rule.String(), "subject", f.Subject)
		return
	}
	b.findings = append(b.findings, f)
}

// BuildResult constructs the final EvaluationReport.
func (b *CheckRunBuilder) BuildResult() *CheckRunBuilder {
	prev, curr := b.evaluator.ProjectCoverage()
	b.result = &schema.EvaluationReport{
		RunID:         uuid.NewString(),
		ProjectKey:    b.project.Key,
		Branch:        b.project.Branch,
		StartedAt:     b.start,
		Duration:      time.Since(b.start),
		FilesScanned:  len(b.files),
		FilesSkipped:  b.evaluator.Skipped(),
		FilesExcluded: b.excluded,
		RemoteCalls:   b.evaluator.Calls(),
		Violations:    b.evaluator.Store().Violations(),
		ProjectPrev:   prev,
		ProjectCurr:   curr,
		Findings:      b.findings,
		Passed:        len(b.findings) == 0,
	}
	if b.result.Findings == nil {
		b.result.Findings = []schema.RegressionFinding{}
	}
	return b
}

// GatedOff reports whether the execution gate prevented the run.
func (b *CheckRunBuilder) GatedOff() bool {
	return b.gatedOff
}

// GetResult returns the built EvaluationReport.
func (b *CheckRunBuilder) GetResult() *schema.EvaluationReport {
	return b.result
}
