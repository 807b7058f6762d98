// Package schema has the models and constants shared by all parts of covevo.
package schema

import (
	"fmt"
	"strings"
)

// CoverageCounters are the raw line counters of one file or of the accumulated project.
// UncoveredLines is expected to be at most LinesToCover but this is not enforced.
type CoverageCounters struct {
	LinesToCover   int `json:"lines_to_cover"`
	UncoveredLines int `json:"uncovered_lines"`
}

// MeasurementKey addresses a single measure on the remote analysis server.
type MeasurementKey struct {
	Component string    `json:"component"` // Opaque component identifier on the server
	Metric    MetricKey `json:"metric"`
}

// RuleKey identifies a rule within a rule repository.
type RuleKey struct {
	Repository string `json:"repository"`
	Rule       string `json:"rule"`
}

// String renders the key as "<repository>:<rule>".
func (k RuleKey) String() string {
	return fmt.Sprintf("%s:%s", k.Repository, k.Rule)
}

// ParseRuleKey parses "<repository>:<rule>".
func ParseRuleKey(s string) (RuleKey, error) {
	repo, rule, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || repo == "" || rule == "" {
		return RuleKey{}, fmt.Errorf("invalid rule key %q: expected <repository>:<rule>", s)
	}
	return RuleKey{Repository: repo, Rule: rule}, nil
}

// FileInput is one file handed over by the host input for evaluation.
type FileInput struct {
	Path      string            `json:"path"`                // Path relative to the project root
	Language  string            `json:"language"`            // Language key, e.g. "go" or "java"
	Lines     int               `json:"lines"`               // Number of source lines, used for the dominant language
	Component string            `json:"component,omitempty"` // Explicit component key; derived when empty
	Counters  *CoverageCounters `json:"counters,omitempty"`  // Nil when the measures are unavailable
}

// ProjectInput is the full set of files of one analysis run plus the project identity.
type ProjectInput struct {
	Key       string      `json:"key"`
	Branch    string      `json:"branch,omitempty"`
	Component string      `json:"component,omitempty"`
	Files     []FileInput `json:"files"`
}

// Languages returns the distinct language keys of the project files, in input order.
func (p ProjectInput) Languages() []string {
	seen := make(map[string]struct{})
	var langs []string
	for _, f := range p.Files {
		if f.Language == "" {
			continue
		}
		if _, ok := seen[f.Language]; ok {
			continue
		}
		seen[f.Language] = struct{}{}
		langs = append(langs, f.Language)
	}
	return langs
}

// RegressionFinding records a coverage decrease for a file or for the project.
type RegressionFinding struct {
	Kind      FindingKind `json:"kind"`
	Subject   string      `json:"subject"` // "file <path>" or "the project"
	Path      string      `json:"path,omitempty"`
	Component string      `json:"component"`
	Language  string      `json:"language,omitempty"`
	Previous  float64     `json:"previous"`
	Current   float64     `json:"current"`
	Rule      RuleKey     `json:"rule"`
	Message   string      `json:"message"`
}

// Delta returns the signed change from previous to current coverage.
func (f RegressionFinding) Delta() float64 {
	return f.Current - f.Previous
}
