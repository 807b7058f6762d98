package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeEffectiveKey(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		project  string
		branch   string
		resource string
		expected string
	}{
		{"explicit wins", "custom:key", "org:proj", "dev", "src/a.java", "custom:key"},
		{"file without branch", "", "org:proj", "", "src/a.java", "org:proj:src/a.java"},
		{"file with branch", "", "org:proj", "dev", "src/a.java", "org:proj:dev:src/a.java"},
		{"project without branch", "", "org:proj", "", "", "org:proj"},
		{"project with branch", "", "org:proj", "dev", "", "org:proj:dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeEffectiveKey(tt.explicit, tt.project, tt.branch, tt.resource))
		})
	}
}
