// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/covevo/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the covevo MCP server without starting it.
// client may be nil when no server URL is configured; the check tool then reports an error.
func NewMCPServer(baseCfg *contract.Config, client contract.MeasurementClient) *server.MCPServer {
	s := server.NewMCPServer(
		"Coverage Evolution Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
	}

	// --- 1. Tool: check_coverage_regressions ---
	s.AddTool(mcp.NewTool("check_coverage_regressions",
		mcp.WithDescription("Compare the line coverage of a coverprofile or manifest against the previous values on the analysis server."),
		mcp.WithString("input", mcp.Description("Path to a Go coverprofile or a covevo manifest."), mcp.Required()),
		mcp.WithString("project_key", mcp.Description("Project key on the analysis server (defaults to the configured or manifest key).")),
		mcp.WithString("branch", mcp.Description("Branch name used to build component keys.")),
		mcp.WithString("exclude", mcp.Description("Comma-separated path patterns to exclude, added to the defaults.")),
	), h.handleCheckCoverage)

	// --- 2. Tool: format_coverage ---
	s.AddTool(mcp.NewTool("format_coverage",
		mcp.WithDescription("Compute the line coverage percentage of a pair of line counters."),
		mcp.WithNumber("lines_to_cover", mcp.Description("Number of lines that can be covered."), mcp.Required()),
		mcp.WithNumber("uncovered_lines", mcp.Description("Number of those lines without coverage."), mcp.Required()),
	), h.handleFormatCoverage)

	return s
}

// StartMCPServer starts the covevo MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.MeasurementClient) error {
	s := NewMCPServer(baseCfg, client)
	return server.ServeStdio(s)
}
