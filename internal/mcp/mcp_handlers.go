package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/covevo/core"
	"github.com/huangsam/covevo/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.MeasurementClient
}

func (h *toolHandler) handleCheckCoverage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("input")
	if err != nil || input == "" {
		return mcp.NewToolResultError("input is required"), nil
	}
	if h.client == nil {
		return mcp.NewToolResultError("server-url is required to fetch previous measures"), nil
	}

	cfg := h.baseCfg.Clone()
	cfg.InputPath = input
	if k := request.GetString("project_key", ""); k != "" {
		cfg.ProjectKey = k
	}
	if b := request.GetString("branch", ""); b != "" {
		cfg.Branch = b
	}
	cfg.Excludes = append(cfg.Excludes, contract.SplitList(request.GetString("exclude", ""))...)

	project, err := core.LoadProject(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not load input: %v", err)), nil
	}
	report, err := core.RunCoverageCheck(ctx, cfg, h.client, project)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("coverage check failed: %v", err)), nil
	}
	if report == nil {
		return mcp.NewToolResultText(`{"skipped": true, "reason": "no coverage evolution rule is active or not all files are scanned"}`), nil
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not encode report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleFormatCoverage(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	for _, name := range []string{"lines_to_cover", "uncovered_lines"} {
		if _, ok := args[name]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("%s is required", name)), nil
		}
	}
	linesToCover := request.GetInt("lines_to_cover", 0)
	uncovered := request.GetInt("uncovered_lines", 0)

	ratio := core.CoverageRatio(linesToCover, uncovered)
	result := map[string]any{
		"lines_to_cover":  linesToCover,
		"uncovered_lines": uncovered,
		"coverage":        ratio,
		"formatted":       core.FormatPercentage(ratio),
	}
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
