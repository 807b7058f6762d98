// Package core has the coverage regression logic: percentage math, the
// project accumulator, rule naming, the evaluator and the command executors.
package core

import (
	"context"
	"fmt"

	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/internal/inputs"
	"github.com/huangsam/covevo/internal/outwriter"
	"github.com/huangsam/covevo/schema"
)

// ExecuteRules prints the rule repository definitions for the languages of
// the configured input, or for Go when no input is given.
func ExecuteRules(_ context.Context, cfg *contract.Config) error {
	languages := []string{inputs.GoLanguage}
	if cfg.InputPath != "" {
		project, err := LoadProject(cfg)
		if err != nil {
			return err
		}
		languages = project.Languages()
	}
	return outwriter.NewOutWriter().WriteRules(DefaultRuleSet().Define(languages), cfg)
}

// ExecuteMeasure looks up the previous line coverage of one component and prints it.
// An empty component addresses the configured project.
func ExecuteMeasure(ctx context.Context, cfg *contract.Config, client contract.MeasurementClient, component string) error {
	if component == "" {
		if cfg.ProjectKey == "" {
			return fmt.Errorf("a component key or --project-key is required")
		}
		component = ComputeEffectiveKey("", cfg.ProjectKey, cfg.Branch, "")
	}

	result := schema.MeasureResult{Component: component, Metric: schema.LineCoverageMetric}
	value, ok := client.FetchMeasurement(ctx, schema.MeasurementKey{Component: component, Metric: result.Metric})
	if ok {
		result.Value = &value
		result.Formatted = FormatPercentage(value)
	}
	return outwriter.NewOutWriter().WriteMeasure(result, cfg)
}
