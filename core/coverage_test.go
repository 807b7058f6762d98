package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoverageRatio(t *testing.T) {
	tests := []struct {
		name      string
		toCover   int
		uncovered int
		want      float64
	}{
		{"nothing to cover", 0, 0, 100},
		{"nothing to cover with uncovered", 0, 42, 100},
		{"half covered", 100, 50, 50},
		{"mostly covered", 1000, 55, 94.5},
		{"two decimals", 10000, 6891, 31.09},
		{"fully covered", 10, 0, 100},
		{"nothing covered", 10, 10, 0},
		{"negative uncovered is not clamped", 100, -100, 200},
		{"uncovered above total is not clamped", 100, 150, -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CoverageRatio(tt.toCover, tt.uncovered), 1e-9)
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.05, "1.1"},
		{1.04, "1.0"},
		{1.0, "1.0"},
		{0, "0.0"},
		{100, "100.0"},
		{99.95, "100.0"},
		{99.94, "99.9"},
		{0.25, "0.3"},
		{0.15, "0.1"},
		{1.15, "1.1"},
		{CoverageRatio(2000, 1197), "40.1"},
		{64.86486486486487, "64.9"},
		{31.090000000000003, "31.1"},
		{50, "50.0"},
		{200, "200.0"},
		{-1.05, "-1.1"},
		{-0.04, "-0.0"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPercentage(tt.in))
		})
	}
}

func TestRoundedGreaterThan(t *testing.T) {
	tests := []struct {
		previous float64
		current  float64
		want     bool
	}{
		{1.1, 1.0, true},
		{1.0, 1.0, false},
		{0.9, 1.0, false},
		{1.04, 1.0, false},
		{1.05, 1.0, true},
		{50, 40, true},
		{100, 35, true},
		{35.01, 35.0, false},
		{40.2, CoverageRatio(2000, 1197), true},
		{40.15, 40.1, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundedGreaterThan(tt.previous, tt.current), "%v > %v", tt.previous, tt.current)
	}
}
