package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteRuleDefinitions outputs the rule repositories, dispatching based on the output format configured.
// Parquet is not offered for definitions and falls back to text.
func WriteRuleDefinitions(defs []schema.RepositoryDefinition, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, defs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRules(w, defs)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRulesText(w, defs)
		}, "Wrote text")
	}
}

// writeRulesText prints one table per repository.
func writeRulesText(w io.Writer, defs []schema.RepositoryDefinition) error {
	if len(defs) == 0 {
		_, err := fmt.Fprintln(w, "No languages found, no rules defined")
		return err
	}
	for _, repo := range defs {
		if _, err := fmt.Fprintf(w, "%s (%s) [%s]\n", repo.Name, repo.Language, repo.Key); err != nil {
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Rule", "Name", "Severity", "Tags"})
		var data [][]string
		for _, r := range repo.Rules {
			data = append(data, []string{
				r.Key.String(),
				r.Name,
				string(r.Severity),
				strings.Join(r.Tags, ","),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVRules(w io.Writer, defs []schema.RepositoryDefinition) error {
	header := []string{"repository", "language", "rule", "name", "severity", "tags", "description"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, repo := range defs {
			for _, r := range repo.Rules {
				rec := []string{
					repo.Key,
					repo.Language,
					r.Key.String(),
					r.Name,
					string(r.Severity),
					strings.Join(r.Tags, "|"),
					r.Description,
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
