package mcp

import (
	"encoding/json"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/models"
)

func TestVersionToolHandler(t *testing.T) {
	spec := &models.APISpec{Title: "Widget API", Version: "2.0"}
	handler := VersionToolHandler(spec, 3)

	result, err := handler(t.Context(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	var info versionInfo
	text := result.Content[0].(mcpgo.TextContent).Text
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if info.Version != common.GetVersion() {
		t.Errorf("expected version %s, got %s", common.GetVersion(), info.Version)
	}
	if info.API != "Widget API" || info.APIVersion != "2.0" || info.Tools != 3 {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestVersionTool_Definition(t *testing.T) {
	tool := VersionTool()
	if tool.Name != VersionToolName {
		t.Errorf("expected name %s, got %s", VersionToolName, tool.Name)
	}
	if tool.Description == "" {
		t.Error("expected a description")
	}
}
