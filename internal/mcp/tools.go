package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/anvil/internal/models"
	"github.com/bobmcallan/anvil/internal/synth"
)

// RegisterTools registers one dry-run handler per tool and returns the count.
func RegisterTools(s *server.MCPServer, baseURL string, tools []*models.ToolDefinition) int {
	plans := synth.Plans(tools)
	for i, td := range tools {
		s.AddTool(BuildTool(td), PreviewHandler(baseURL, td, plans[i]))
	}
	return len(tools)
}
