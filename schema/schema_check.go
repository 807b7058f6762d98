package schema

import "time"

// EvaluationReport holds the results of one coverage regression check.
type EvaluationReport struct {
	RunID         string              `json:"run_id"`
	ProjectKey    string              `json:"project_key"`
	Branch        string              `json:"branch,omitempty"`
	StartedAt     time.Time           `json:"started_at"`
	Duration      time.Duration       `json:"duration"`
	FilesScanned  int                 `json:"files_scanned"`  // Files handed to the evaluator
	FilesSkipped  int                 `json:"files_skipped"`  // Files without counters
	FilesExcluded int                 `json:"files_excluded"` // Files dropped by excludes or filter
	RemoteCalls   int                 `json:"remote_calls"`
	Violations    int                 `json:"accumulator_violations,omitempty"`
	ProjectPrev   *float64            `json:"project_previous,omitempty"`
	ProjectCurr   float64             `json:"project_current"`
	Findings      []RegressionFinding `json:"findings"`
	Passed        bool                `json:"passed"`
}

// FileFindings returns the file-level findings in report order.
func (r *EvaluationReport) FileFindings() []RegressionFinding {
	return r.findingsOf(FileFinding)
}

// ProjectFindings returns the project-level findings.
func (r *EvaluationReport) ProjectFindings() []RegressionFinding {
	return r.findingsOf(ProjectFinding)
}

func (r *EvaluationReport) findingsOf(kind FindingKind) []RegressionFinding {
	var out []RegressionFinding
	for _, f := range r.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// RuleDefinition describes one rule exposed to the host's rule registry.
type RuleDefinition struct {
	Key         RuleKey  `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"` // Markdown
	Tags        []string `json:"tags"`
	Severity    Severity `json:"severity"`
}

// RepositoryDefinition groups the rules for one language.
type RepositoryDefinition struct {
	Key      string           `json:"key"`
	Name     string           `json:"name"`
	Language string           `json:"language"`
	Rules    []RuleDefinition `json:"rules"`
}

// MeasureResult is a single previous measure looked up on the remote server.
type MeasureResult struct {
	Component string    `json:"component"`
	Metric    MetricKey `json:"metric"`
	Value     *float64  `json:"value"`               // Nil when no measure is available
	Formatted string    `json:"formatted,omitempty"` // One-decimal rendering of Value
}
