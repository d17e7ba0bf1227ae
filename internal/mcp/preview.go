// Package mcp exposes classified tools as MCP tool schemas and serves them
// from a preview server whose handlers describe, rather than send, the
// upstream request.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/models"
	"github.com/bobmcallan/anvil/internal/synth"
)

// noEndpointText matches the generated server's reply for a tool with no endpoint.
const noEndpointText = "No endpoint configured"

// Preview is the dry-run description returned by a preview tool call.
type Preview struct {
	Tool    string             `json:"tool"`
	Safety  models.SafetyLevel `json:"safety"`
	URL     string             `json:"url"`
	Request *synth.Request     `json:"request"`
}

// PreviewHandler returns a handler that resolves the call arguments against
// plan and reports the request a generated server would send.
func PreviewHandler(baseURL string, td *models.ToolDefinition, plan *synth.CallPlan) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !plan.HasEndpoint {
			return textResult(noEndpointText), nil
		}
		req, err := plan.Resolve(r.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		out, err := json.MarshalIndent(Preview{
			Tool:    td.Name,
			Safety:  td.Safety,
			URL:     baseURL + req.Path,
			Request: req,
		}, "", "  ")
		if err != nil {
			return errorResult("failed to marshal preview"), nil
		}
		return textResult(string(out)), nil
	}
}

// NewPreviewServer builds an MCP server advertising tools with dry-run
// handlers. It never contacts the upstream API.
func NewPreviewServer(logger *common.Logger, spec *models.APISpec, tools []*models.ToolDefinition) *server.MCPServer {
	name := synth.ServerName(spec.Title, "")
	s := server.NewMCPServer(
		name+"-preview",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	s.AddTool(VersionTool(), VersionToolHandler(spec, len(tools)))
	count := RegisterTools(s, spec.BaseURL, tools)

	logger.Info().
		Str("server_name", name).
		Int("tools", count).
		Str("base_url", spec.BaseURL).
		Msg("preview server initialized")
	return s
}

// ServeStdio serves s over stdin/stdout until the input closes.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
