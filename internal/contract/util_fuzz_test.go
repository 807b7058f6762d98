package contract

import (
	"strings"
	"testing"
)

// FuzzShouldIgnore fuzzes the ShouldIgnore function with random paths and exclude patterns.
func FuzzShouldIgnore(f *testing.F) {
	f.Add("core/evaluator.go", "*_test.go")
	f.Add("vendor/pkg/file.go", "vendor/")
	f.Add("api/service.pb.go", ".pb.go")
	f.Add("", "")
	f.Add("src/[weird].java", "[")

	f.Fuzz(func(_ *testing.T, path string, excludesStr string) {
		_ = ShouldIgnore(path, SplitList(excludesStr))
	})
}

// FuzzNormalizePath checks that accepted paths never escape the project root.
func FuzzNormalizePath(f *testing.F) {
	f.Add("src/a.java")
	f.Add("../x")
	f.Add("./a/../../b")
	f.Add("")

	f.Fuzz(func(t *testing.T, p string) {
		got, err := NormalizePath("", p)
		if err != nil {
			return
		}
		if got == ".." || strings.HasPrefix(got, "../") {
			t.Fatalf("path %q normalized to %q which escapes the root", p, got)
		}
	})
}
