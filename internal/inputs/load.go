// Package inputs loads the per-file coverage counters handed to the evaluator.
package inputs

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/covevo/schema"
)

// Load reads the input file in the given format. AutoInput picks the
// coverprofile parser when the first line starts with "mode:".
func Load(path string, format schema.InputFormat, modulePrefix string) (schema.ProjectInput, error) {
	if path == "" {
		return schema.ProjectInput{}, fmt.Errorf("an input file is required (coverprofile or manifest)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.ProjectInput{}, fmt.Errorf("read input %s: %w", path, err)
	}

	if format == schema.AutoInput || format == "" {
		format = DetectFormat(data)
	}
	switch format {
	case schema.CoverProfileInput:
		return ParseCoverProfile(bytes.NewReader(data), modulePrefix)
	case schema.ManifestInput:
		return ParseManifest(bytes.NewReader(data))
	default:
		return schema.ProjectInput{}, fmt.Errorf("unsupported input format %q", format)
	}
}

// DetectFormat sniffs the first non-blank line of data.
func DetectFormat(data []byte) schema.InputFormat {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "mode:") {
			return schema.CoverProfileInput
		}
		break
	}
	return schema.ManifestInput
}
