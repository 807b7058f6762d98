// Package outwriter renders check reports and rule definitions.
package outwriter

import (
	"os"

	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints a check report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.EvaluationReport, cfg *contract.Config) error {
	return WriteReport(report, cfg)
}

// WriteRules prints rule repository definitions using the configured output format.
func (ow *OutWriter) WriteRules(defs []schema.RepositoryDefinition, cfg *contract.Config) error {
	return WriteRuleDefinitions(defs, cfg)
}

// WriteMeasure prints a single previous measure using the configured output format.
func (ow *OutWriter) WriteMeasure(m schema.MeasureResult, cfg *contract.Config) error {
	return WriteMeasure(m, cfg)
}

// GetMaxTablePathWidth calculates the maximum width for file paths in table output
// based on terminal width and the fixed columns of the findings table.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Kind + Previous + Current + Delta + Label + Rule, plus borders and padding
	baseWidth := 85

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
