// Package parquet provides data structures and functions for exporting coverage
// regression findings to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/covevo/schema"
	"github.com/parquet-go/parquet-go"
)

// Finding is one regression finding flattened together with its run metadata,
// so a single file can be loaded into a table without joins.
type Finding struct {
	// RunID identifies the check run that produced the finding
	RunID string `parquet:"run_id,snappy"`

	// ProjectKey is the project the run evaluated
	ProjectKey string `parquet:"project_key,snappy"`

	// Branch is the analyzed branch (nullable)
	Branch *string `parquet:"branch,optional,snappy"`

	// StartedAt is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// Kind is either "file" or "project"
	Kind string `parquet:"kind,snappy"`

	// Path is the file path relative to the project root (nullable for project findings)
	Path *string `parquet:"path,optional,snappy"`

	// Component is the remote component key the previous value was read from
	Component string `parquet:"component,snappy"`

	// Language of the file, or the dominant language for project findings
	Language string `parquet:"language,snappy"`

	// PreviousCoverage and CurrentCoverage are line-coverage percentages
	PreviousCoverage float64 `parquet:"previous_coverage,snappy"`
	CurrentCoverage  float64 `parquet:"current_coverage,snappy"`

	// Rule is the "<repository>:<rule>" key the finding is reported under
	Rule string `parquet:"rule,snappy"`

	// Message is the human-readable issue message
	Message string `parquet:"message,snappy"`
}

// WriteFindingsParquet writes a slice of Finding structs to a Parquet file.
func WriteFindingsParquet(data []Finding, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the Finding struct tags
	writer := parquet.NewGenericWriter[Finding](file)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertReport flattens the findings of a report into Parquet rows.
func ConvertReport(report *schema.EvaluationReport) []Finding {
	var branch *string
	if report.Branch != "" {
		branch = &report.Branch
	}

	rows := make([]Finding, 0, len(report.Findings))
	for _, f := range report.Findings {
		var path *string
		if f.Path != "" {
			p := f.Path
			path = &p
		}
		rows = append(rows, Finding{
			RunID:            report.RunID,
			ProjectKey:       report.ProjectKey,
			Branch:           branch,
			StartedAt:        report.StartedAt,
			Kind:             string(f.Kind),
			Path:             path,
			Component:        f.Component,
			Language:         f.Language,
			PreviousCoverage: f.Previous,
			CurrentCoverage:  f.Current,
			Rule:             f.Rule.String(),
			Message:          f.Message,
		})
	}
	return rows
}
