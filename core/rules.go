package core

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/huangsam/covevo/schema"
)

// RuleSet names the coverage rule repositories and rules.
// It is an immutable value: copy it around, never mutate a shared instance.
type RuleSet struct {
	RepositoryPrefix string // Repositories are keyed "<prefix>-<language>"
	RepositoryName   string

	FileRuleID          string
	FileRuleName        string
	FileRuleDescription string

	ProjectRuleID          string
	ProjectRuleName        string
	ProjectRuleDescription string

	Tags     []string
	Severity schema.Severity
}

// DefaultRuleSet returns the standard coverage evolution rules.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		RepositoryPrefix:       "coverageEvolution",
		RepositoryName:         "Coverage evolution",
		FileRuleID:             "decreasingLineCoverage",
		FileRuleName:           "Line-coverage on files should not decrease",
		FileRuleDescription:    "Reports if the line-coverage on a file has decreased.",
		ProjectRuleID:          "decreasingOverallLineCoverage",
		ProjectRuleName:        "Project-wide line-coverage should not decrease",
		ProjectRuleDescription: "Reports if the line-coverage on the project has decreased.",
		Tags:                   []string{"bad-practice"},
		Severity:               schema.BlockerSeverity,
	}
}

// RepositoryKey returns the repository holding the rules of a language.
func (rs RuleSet) RepositoryKey(language string) string {
	return rs.RepositoryPrefix + "-" + language
}

// FileRule returns the per-file regression rule for a language.
func (rs RuleSet) FileRule(language string) schema.RuleKey {
	return schema.RuleKey{Repository: rs.RepositoryKey(language), Rule: rs.FileRuleID}
}

// ProjectRule returns the project-wide regression rule for the dominant
// language of files. It returns false when no language can be determined.
func (rs RuleSet) ProjectRule(files []schema.FileInput, logger *slog.Logger) (schema.RuleKey, bool) {
	if logger == nil {
		logger = slog.Default()
	}
	lang, ok := DominantLanguage(files)
	if !ok {
		logger.Warn("The project does not contain any languages, skipping overall coverage issue")
		return schema.RuleKey{}, false
	}
	logger.Info("Using language for the project wide coverage", "language", lang)
	return schema.RuleKey{Repository: rs.RepositoryKey(lang), Rule: rs.ProjectRuleID}, true
}

// AllRules returns every rule key defined for the given languages.
func (rs RuleSet) AllRules(languages []string) []schema.RuleKey {
	keys := make([]schema.RuleKey, 0, 2*len(languages))
	for _, lang := range languages {
		keys = append(keys, rs.FileRule(lang), schema.RuleKey{Repository: rs.RepositoryKey(lang), Rule: rs.ProjectRuleID})
	}
	return keys
}

// Define returns one repository definition per language, sorted by language key.
func (rs RuleSet) Define(languages []string) []schema.RepositoryDefinition {
	langs := slices.Clone(languages)
	slices.Sort(langs)
	langs = slices.Compact(langs)

	defs := make([]schema.RepositoryDefinition, 0, len(langs))
	for _, lang := range langs {
		if lang == "" {
			continue
		}
		repo := rs.RepositoryKey(lang)
		defs = append(defs, schema.RepositoryDefinition{
			Key:      repo,
			Name:     rs.RepositoryName,
			Language: lang,
			Rules: []schema.RuleDefinition{
				{
					Key:         schema.RuleKey{Repository: repo, Rule: rs.FileRuleID},
					Name:        rs.FileRuleName,
					Description: rs.FileRuleDescription,
					Tags:        slices.Clone(rs.Tags),
					Severity:    rs.Severity,
				},
				{
					Key:         schema.RuleKey{Repository: repo, Rule: rs.ProjectRuleID},
					Name:        rs.ProjectRuleName,
					Description: rs.ProjectRuleDescription,
					Tags:        slices.Clone(rs.Tags),
					Severity:    rs.Severity,
				},
			},
		})
	}
	return defs
}

// Owns reports whether key belongs to one of the coverage rule repositories.
func (rs RuleSet) Owns(key schema.RuleKey) bool {
	return strings.HasPrefix(key.Repository, rs.RepositoryPrefix+"-")
}

// ShouldExecute reports whether any active rule belongs to the coverage repositories.
func (rs RuleSet) ShouldExecute(active []schema.RuleKey) bool {
	return slices.ContainsFunc(active, rs.Owns)
}

// IsActive reports whether key is present in active.
func IsActive(key schema.RuleKey, active []schema.RuleKey) bool {
	return slices.Contains(active, key)
}

// DominantLanguage returns the language with the most source lines.
// Ties go to the lexicographically smallest language key.
func DominantLanguage(files []schema.FileInput) (string, bool) {
	lines := make(map[string]int)
	for _, f := range files {
		if f.Language == "" {
			continue
		}
		lines[f.Language] += f.Lines
	}
	if len(lines) == 0 {
		return "", false
	}

	best, bestLines := "", -1
	for lang, n := range lines {
		if n > bestLines || (n == bestLines && lang < best) {
			best, bestLines = lang, n
		}
	}
	return best, true
}
