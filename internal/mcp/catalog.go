package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/anvil/internal/models"
	"github.com/bobmcallan/anvil/internal/synth"
)

// BuildTool converts a classified tool into the mcp.Tool schema a generated
// server advertises for it.
func BuildTool(td *models.ToolDefinition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(td.Description)}
	opts = append(opts, annotations(td.Safety)...)
	for _, p := range td.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(td.Name, opts...)
}

// BuildTools converts every tool in order.
func BuildTools(tools []*models.ToolDefinition) []mcp.Tool {
	out := make([]mcp.Tool, len(tools))
	for i, td := range tools {
		out[i] = BuildTool(td)
	}
	return out
}

func annotations(level models.SafetyLevel) []mcp.ToolOption {
	h, ok := synth.HintsFor(level)
	if !ok {
		return nil
	}
	opts := []mcp.ToolOption{mcp.WithReadOnlyHintAnnotation(h.ReadOnly)}
	if h.Destructive != nil {
		opts = append(opts, mcp.WithDestructiveHintAnnotation(*h.Destructive))
	}
	return opts
}

// buildParamOption maps a ToolParam to the matching mcp-go property option.
func buildParamOption(p *models.ToolParam) mcp.ToolOption {
	prop := synth.PropertyFor(p)
	var opts []mcp.PropertyOption
	if prop.Required {
		opts = append(opts, mcp.Required())
	}
	if prop.Description != "" {
		opts = append(opts, mcp.Description(prop.Description))
	}
	if len(prop.Enum) > 0 {
		opts = append(opts, mcp.Enum(prop.Enum...))
	}
	switch d := prop.Default.(type) {
	case string:
		opts = append(opts, mcp.DefaultString(d))
	case bool:
		opts = append(opts, mcp.DefaultBool(d))
	case float64:
		opts = append(opts, mcp.DefaultNumber(d))
	}

	switch prop.Kind {
	case synth.KindNumber:
		return mcp.WithNumber(prop.Name, opts...)
	case synth.KindBoolean:
		return mcp.WithBoolean(prop.Name, opts...)
	case synth.KindArray:
		return mcp.WithArray(prop.Name, append([]mcp.PropertyOption{mcp.WithStringItems()}, opts...)...)
	case synth.KindObject:
		return mcp.WithObject(prop.Name, opts...)
	}
	return mcp.WithString(prop.Name, opts...)
}
