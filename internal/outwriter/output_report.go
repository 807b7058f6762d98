package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/internal/parquet"
	"github.com/huangsam/covevo/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteReport outputs a check report, dispatching based on the output format configured.
func WriteReport(report *schema.EvaluationReport, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONReport(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVReport(w, report, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteFindingsParquet(parquet.ConvertReport(report), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		return writeWithFile("", func(w io.Writer) error {
			return writeReportSummary(w, report, fmtFloat, intFmt)
		}, "")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(w, report, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
	return nil
}

// writeReportTable writes the human-readable report: header, findings table and summary.
func writeReportTable(w io.Writer, report *schema.EvaluationReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if err := writeReportHeader(w, report); err != nil {
		return err
	}

	if len(report.Findings) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Kind", "Subject", "Previous", "Current", "Delta", "Label", "Rule"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})

		pathWidth := GetMaxTablePathWidth(cfg)
		var data [][]string
		for _, f := range report.Findings {
			subject := f.Subject
			if f.Kind == schema.FileFinding {
				subject = contract.TruncatePath(f.Path, pathWidth)
			}
			drop := f.Previous - f.Current
			label := contract.GetPlainLabel(drop)
			if cfg.UseColors {
				label = contract.GetColorLabel(drop)
			}
			data = append(data, []string{
				string(f.Kind),
				subject,
				fmtFloat(f.Previous),
				fmtFloat(f.Current),
				fmtFloat(f.Delta()),
				label,
				f.Rule.String(),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if report.Passed {
		if _, err := fmt.Fprintln(w, "✅ No line coverage regressions found"); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "❌ Coverage check failed: %d regression(s) found\n", len(report.Findings)); err != nil {
			return err
		}
	}
	return writeReportSummary(w, report, fmtFloat, intFmt)
}

// writeReportHeader prints the run identity with padded labels.
func writeReportHeader(w io.Writer, report *schema.EvaluationReport) error {
	branch := report.Branch
	if branch == "" {
		branch = "(default)"
	}
	labels := []string{"Project:", "Branch:", "Run:"}
	values := []string{report.ProjectKey, branch, report.RunID}

	maxLabelLen := 0
	for _, label := range labels {
		maxLabelLen = max(maxLabelLen, len(label))
	}

	if _, err := fmt.Fprintln(w, "Coverage Check Results:"); err != nil {
		return err
	}
	for i, label := range labels {
		if _, err := fmt.Fprintf(w, "  %-*s %s\n", maxLabelLen+1, label, values[i]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeReportSummary prints the footer line shared by the text and parquet outputs.
func writeReportSummary(w io.Writer, report *schema.EvaluationReport, fmtFloat func(float64) string, intFmt string) error {
	previous := "n/a"
	if report.ProjectPrev != nil {
		previous = fmtFloat(*report.ProjectPrev) + "%"
	}
	_, err := fmt.Fprintf(w,
		"Scanned "+intFmt+" files ("+intFmt+" skipped, "+intFmt+" excluded) with "+intFmt+" remote calls. "+
			"Project coverage: %s%% (previous: %s). Completed in %v\n",
		report.FilesScanned, report.FilesSkipped, report.FilesExcluded, report.RemoteCalls,
		fmtFloat(report.ProjectCurr), previous, report.Duration.Round(time.Millisecond))
	return err
}

// writeCSVReport writes one record per finding.
func writeCSVReport(w io.Writer, report *schema.EvaluationReport, fmtFloat func(float64) string) error {
	header := []string{
		"run_id",
		"kind",
		"path",
		"component",
		"language",
		"previous",
		"current",
		"delta",
		"label",
		"rule",
		"message",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, f := range report.Findings {
			rec := []string{
				report.RunID,
				string(f.Kind),
				f.Path,
				f.Component,
				f.Language,
				fmtFloat(f.Previous),
				fmtFloat(f.Current),
				fmtFloat(f.Delta()),
				contract.GetPlainLabel(f.Previous - f.Current),
				f.Rule.String(),
				f.Message,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONReport writes the whole report, adding a label and delta to every finding.
func writeJSONReport(w io.Writer, report *schema.EvaluationReport) error {
	type jsonFinding struct {
		schema.RegressionFinding
		Delta float64 `json:"delta"`
		Label string  `json:"label"`
	}
	type jsonReport struct {
		*schema.EvaluationReport
		Findings []jsonFinding `json:"findings"`
	}

	out := jsonReport{EvaluationReport: report, Findings: make([]jsonFinding, 0, len(report.Findings))}
	for _, f := range report.Findings {
		out.Findings = append(out.Findings, jsonFinding{
			RegressionFinding: f,
			Delta:             f.Delta(),
			Label:             contract.GetPlainLabel(f.Previous - f.Current),
		})
	}
	return writeJSON(w, out)
}
