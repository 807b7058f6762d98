package inputs

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/covevo/schema"
	"golang.org/x/tools/cover"
)

// GoLanguage is the language key given to files read from a coverprofile.
const GoLanguage = "go"

// ParseCoverProfile reads a `go test -coverprofile` document and turns every
// profiled file into line counters. A source line is to cover when any block
// spans it, and uncovered when every block spanning it has a zero count.
func ParseCoverProfile(r io.Reader, modulePrefix string) (schema.ProjectInput, error) {
	profiles, err := cover.ParseProfilesFromReader(r)
	if err != nil {
		return schema.ProjectInput{}, fmt.Errorf("parse coverprofile: %w", err)
	}

	files := make([]schema.FileInput, 0, len(profiles))
	for _, p := range profiles {
		counters, lines := countLines(p.Blocks)
		files = append(files, schema.FileInput{
			Path:     trimModulePrefix(p.FileName, modulePrefix),
			Language: GoLanguage,
			Lines:    lines,
			Counters: &counters,
		})
	}
	return schema.ProjectInput{Files: files}, nil
}

// countLines returns the line counters of one file and the highest line seen.
func countLines(blocks []cover.ProfileBlock) (schema.CoverageCounters, int) {
	covered := make(map[int]bool)
	maxLine := 0
	for _, b := range blocks {
		for line := b.StartLine; line <= b.EndLine; line++ {
			covered[line] = covered[line] || b.Count > 0
		}
		maxLine = max(maxLine, b.EndLine)
	}

	counters := schema.CoverageCounters{LinesToCover: len(covered)}
	for _, hit := range covered {
		if !hit {
			counters.UncoveredLines++
		}
	}
	return counters, maxLine
}

// trimModulePrefix turns an import-path file name into a module-relative path.
func trimModulePrefix(name, modulePrefix string) string {
	prefix := strings.TrimSuffix(modulePrefix, "/")
	if prefix == "" {
		return name
	}
	return strings.TrimPrefix(name, prefix+"/")
}
