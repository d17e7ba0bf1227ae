package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/models"
)

// VersionToolName is reserved by the preview server. A mined tool with the
// same name replaces it.
const VersionToolName = "anvil_preview_info"

// versionInfo is the payload of the preview info tool.
type versionInfo struct {
	Version    string `json:"version"`
	Build      string `json:"build"`
	Commit     string `json:"commit"`
	API        string `json:"api"`
	APIVersion string `json:"api_version"`
	Tools      int    `json:"tools"`
}

// VersionTool returns the mcp.Tool definition for the preview info tool.
func VersionTool() mcp.Tool {
	return mcp.NewTool(VersionToolName,
		mcp.WithDescription("Get the anvil version and the API this preview was generated from. Use this to verify connectivity."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// VersionToolHandler reports the anvil build and the previewed API.
func VersionToolHandler(spec *models.APISpec, tools int) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(versionInfo{
			Version:    common.GetVersion(),
			Build:      common.GetBuild(),
			Commit:     common.GetGitCommit(),
			API:        spec.Title,
			APIVersion: spec.Version,
			Tools:      tools,
		})
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return textResult(string(out)), nil
	}
}
