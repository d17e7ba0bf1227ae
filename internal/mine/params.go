package mine

import (
	"fmt"

	"github.com/bobmcallan/anvil/internal/models"
)

// ToolParams flattens an endpoint's parameters, first occurrence of a name wins.
func ToolParams(ep *models.Endpoint) []*models.ToolParam {
	seen := make(map[string]bool, len(ep.Parameters))
	out := make([]*models.ToolParam, 0, len(ep.Parameters))
	for _, p := range ep.Parameters {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, toolParam(p, ep.Method))
	}
	return out
}

func toolParam(p models.ParamSchema, method models.HTTPMethod) *models.ToolParam {
	desc := p.Description
	if desc == "" {
		desc = string(describedLocation(p.Location, method)) + " parameter"
	}
	return &models.ToolParam{
		Name:        p.Name,
		Description: desc,
		Type:        models.NormalizeType(p.SchemaType),
		Required:    p.Required,
		Enum:        enumStrings(p.Enum),
		Default:     p.Default,
	}
}

// describedLocation is the declared location, or for an unlocated parameter
// the place the method sends it by default.
func describedLocation(loc models.ParamLocation, method models.HTTPMethod) models.ParamLocation {
	if loc != "" {
		return loc
	}
	if method.SendsQueryByDefault() {
		return models.LocationQuery
	}
	return models.LocationBody
}

// enumStrings renders enum members as strings. Nil members are skipped.
func enumStrings(values []any) []string {
	var out []string
	for _, v := range values {
		switch x := v.(type) {
		case nil:
		case string:
			out = append(out, x)
		default:
			out = append(out, fmt.Sprint(x))
		}
	}
	return out
}

// mergeParams is the union of every endpoint's tool params by name.
func mergeParams(eps []*models.Endpoint) []*models.ToolParam {
	seen := make(map[string]bool)
	var out []*models.ToolParam
	for _, ep := range eps {
		for _, tp := range ToolParams(ep) {
			if seen[tp.Name] {
				continue
			}
			seen[tp.Name] = true
			out = append(out, tp)
		}
	}
	return out
}
