package mcp_test

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/covevo/internal/contract"
	mcp_internal "github.com/huangsam/covevo/internal/mcp"
	"github.com/huangsam/covevo/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const manifest = `project:
  key: org:proj
files:
  - path: a.java
    language: java
    lines: 100
    lines_to_cover: 100
    uncovered_lines: 60
  - path: b.java
    language: java
    lines: 100
    lines_to_cover: 100
    uncovered_lines: 70
`

func callTool(t *testing.T, cfg *contract.Config, client contract.MeasurementClient, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, client)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestCheckCoverageRegressions(t *testing.T) {
	input := filepath.Join(t.TempDir(), "covevo.yaml")
	require.NoError(t, os.WriteFile(input, []byte(manifest), 0o644))

	key := func(c string) schema.MeasurementKey {
		return schema.MeasurementKey{Component: c, Metric: schema.LineCoverageMetric}
	}
	baseCfg := &contract.Config{ScanAllFiles: true, Excludes: []string{"vendor/"}}

	t.Run("reports findings", func(t *testing.T) {
		client := &contract.MockMeasurementClient{}
		client.On("FetchMeasurement", mock.Anything, key("org:proj:a.java")).Return(50.0, true)
		client.On("FetchMeasurement", mock.Anything, key("org:proj:b.java")).Return(50.0, true)
		client.On("FetchMeasurement", mock.Anything, key("org:proj")).Return(100.0, true)

		res := callTool(t, baseCfg, client, "check_coverage_regressions", map[string]any{"input": input})
		require.False(t, res.IsError, resultText(res))

		var report schema.EvaluationReport
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
		assert.Len(t, report.Findings, 3)
		assert.Equal(t, 3, report.RemoteCalls)
		assert.Equal(t, []string{"vendor/"}, baseCfg.Excludes, "the base config is not mutated")
	})

	t.Run("exclude and branch arguments", func(t *testing.T) {
		client := &contract.MockMeasurementClient{}
		client.On("FetchMeasurement", mock.Anything, key("org:proj:dev:b.java")).Return(0.0, false).Once()
		client.On("FetchMeasurement", mock.Anything, key("org:proj:dev")).Return(0.0, false).Once()

		res := callTool(t, baseCfg, client, "check_coverage_regressions", map[string]any{
			"input":   input,
			"branch":  "dev",
			"exclude": "a.java",
		})
		require.False(t, res.IsError, resultText(res))
		client.AssertExpectations(t)
	})

	t.Run("unencodable report", func(t *testing.T) {
		client := &contract.MockMeasurementClient{}
		client.On("FetchMeasurement", mock.Anything, key("org:proj:a.java")).Return(0.0, false)
		client.On("FetchMeasurement", mock.Anything, key("org:proj:b.java")).Return(0.0, false)
		client.On("FetchMeasurement", mock.Anything, key("org:proj")).Return(math.NaN(), true)

		res := callTool(t, baseCfg, client, "check_coverage_regressions", map[string]any{"input": input})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "could not encode report")
	})

	t.Run("gated off", func(t *testing.T) {
		res := callTool(t, &contract.Config{}, &contract.MockMeasurementClient{}, "check_coverage_regressions", map[string]any{"input": input})
		assert.False(t, res.IsError)
		assert.Contains(t, resultText(res), `"skipped": true`)
	})

	t.Run("missing input", func(t *testing.T) {
		res := callTool(t, baseCfg, &contract.MockMeasurementClient{}, "check_coverage_regressions", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "input is required")
	})

	t.Run("no client configured", func(t *testing.T) {
		res := callTool(t, baseCfg, nil, "check_coverage_regressions", map[string]any{"input": input})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "server-url is required")
	})

	t.Run("unreadable input", func(t *testing.T) {
		res := callTool(t, baseCfg, &contract.MockMeasurementClient{}, "check_coverage_regressions",
			map[string]any{"input": filepath.Join(t.TempDir(), "missing.out")})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "could not load input")
	})
}

func TestFormatCoverage(t *testing.T) {
	res := callTool(t, &contract.Config{}, nil, "format_coverage", map[string]any{
		"lines_to_cover":  37.0,
		"uncovered_lines": 13.0,
	})
	require.False(t, res.IsError)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
	assert.Equal(t, "64.9", got["formatted"])
	assert.InDelta(t, 64.864864, got["coverage"], 1e-5)

	res = callTool(t, &contract.Config{}, nil, "format_coverage", map[string]any{"lines_to_cover": 0.0})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "uncovered_lines is required")
}
