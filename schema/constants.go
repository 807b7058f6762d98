package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// MetricKey identifies a measure exposed by the remote analysis server.
	MetricKey string

	// FindingKind tells whether a finding is about a single file or the whole project.
	FindingKind string

	// InputFormat represents the kind of host input that carries coverage counters.
	InputFormat string

	// Severity is the severity attached to a rule definition.
	Severity string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// Metrics consumed by the regression engine.
const (
	LinesToCoverMetric   MetricKey = "lines_to_cover"
	UncoveredLinesMetric MetricKey = "uncovered_lines"
	LineCoverageMetric   MetricKey = "line_coverage"
)

// All finding kinds.
const (
	FileFinding    FindingKind = "file"
	ProjectFinding FindingKind = "project"
)

// All input formats supported.
const (
	AutoInput         InputFormat = "auto" // default
	CoverProfileInput InputFormat = "coverprofile"
	ManifestInput     InputFormat = "manifest"
)

// Rule severities.
const (
	BlockerSeverity  Severity = "BLOCKER"
	CriticalSeverity Severity = "CRITICAL"
	MajorSeverity    Severity = "MAJOR"
	MinorSeverity    Severity = "MINOR"
	InfoSeverity     Severity = "INFO"
)

// AllMetricKeys returns every metric the engine knows about.
var AllMetricKeys = []MetricKey{LinesToCoverMetric, UncoveredLinesMetric, LineCoverageMetric}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidInputFormats lists all valid input formats.
var ValidInputFormats = map[InputFormat]struct{}{
	AutoInput:         {},
	CoverProfileInput: {},
	ManifestInput:     {},
}

// IsValid reports whether m is one of the known metrics.
func (m MetricKey) IsValid() bool {
	for _, k := range AllMetricKeys {
		if k == m {
			return true
		}
	}
	return false
}

// IsPercentage reports whether the metric value is a percentage rather than a line count.
func (m MetricKey) IsPercentage() bool {
	return m == LineCoverageMetric
}
