package inputs

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/schema"
	"gopkg.in/yaml.v3"
)

// manifestDoc is the on-disk layout of a manifest. JSON documents parse too.
type manifestDoc struct {
	Project struct {
		Key       string `yaml:"key"`
		Branch    string `yaml:"branch"`
		Component string `yaml:"component"`
		Root      string `yaml:"root"`
	} `yaml:"project"`
	Files []manifestFile `yaml:"files"`
}

type manifestFile struct {
	Path           string `yaml:"path"`
	Language       string `yaml:"language"`
	Lines          int    `yaml:"lines"`
	Component      string `yaml:"component"`
	LinesToCover   *int   `yaml:"lines_to_cover"`
	UncoveredLines *int   `yaml:"uncovered_lines"`
}

// ParseManifest reads a YAML or JSON manifest listing the project identity and
// its files. Paths are made relative to project.root; a file missing either
// counter gets nil counters.
func ParseManifest(r io.Reader) (schema.ProjectInput, error) {
	var doc manifestDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return schema.ProjectInput{}, fmt.Errorf("parse manifest: document is empty")
		}
		return schema.ProjectInput{}, fmt.Errorf("parse manifest: %w", err)
	}

	project := schema.ProjectInput{
		Key:       strings.TrimSpace(doc.Project.Key),
		Branch:    strings.TrimSpace(doc.Project.Branch),
		Component: doc.Project.Component,
		Files:     make([]schema.FileInput, 0, len(doc.Files)),
	}
	for i, f := range doc.Files {
		if strings.TrimSpace(f.Path) == "" {
			return schema.ProjectInput{}, fmt.Errorf("parse manifest: file #%d has no path", i+1)
		}
		path, err := contract.NormalizePath(doc.Project.Root, f.Path)
		if err != nil {
			return schema.ProjectInput{}, fmt.Errorf("parse manifest: file #%d: %w", i+1, err)
		}
		in := schema.FileInput{
			Path:      path,
			Language:  f.Language,
			Lines:     f.Lines,
			Component: f.Component,
		}
		if f.LinesToCover != nil && f.UncoveredLines != nil {
			in.Counters = &schema.CoverageCounters{
				LinesToCover:   *f.LinesToCover,
				UncoveredLines: *f.UncoveredLines,
			}
		}
		project.Files = append(project.Files, in)
	}
	return project, nil
}
