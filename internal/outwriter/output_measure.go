package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/schema"
)

// WriteMeasure outputs one previous measure as JSON or as a single text line.
func WriteMeasure(m schema.MeasureResult, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, m)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeMeasureText(w, m)
	}, "Wrote text")
}

func writeMeasureText(w io.Writer, m schema.MeasureResult) error {
	if m.Value == nil {
		_, err := fmt.Fprintf(w, "No previous %s measure available for %s\n", m.Metric, m.Component)
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s: %s%%\n", m.Component, m.Metric, m.Formatted)
	return err
}
