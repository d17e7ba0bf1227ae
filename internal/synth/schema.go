package synth

import (
	"strconv"
	"strings"

	"github.com/bobmcallan/anvil/internal/models"
)

// Property kinds, named after the mcp-go With<Kind> option that declares them.
const (
	KindString  = "String"
	KindNumber  = "Number"
	KindBoolean = "Boolean"
	KindArray   = "Array"
	KindObject  = "Object"
)

// Property is the advertised schema of one tool parameter. Generated server
// source and the preview catalog are both built from it.
type Property struct {
	Kind        string
	Name        string
	Required    bool
	Description string
	// Enum is only set for string properties.
	Enum []string
	// Default is a string, bool or float64 matching Kind, or nil.
	Default any
}

// PropertyKind maps a parameter type to its property kind.
// Integers are advertised as JSON numbers.
func PropertyKind(t models.JSONType) string {
	switch t {
	case models.TypeInteger, models.TypeNumber:
		return KindNumber
	case models.TypeBoolean:
		return KindBoolean
	case models.TypeArray:
		return KindArray
	case models.TypeObject:
		return KindObject
	case models.TypeString:
		return KindString
	}
	return KindString
}

// PropertyFor describes p. Defaults whose type does not match the kind are
// dropped.
func PropertyFor(p *models.ToolParam) Property {
	prop := Property{
		Kind:        PropertyKind(p.Type),
		Name:        p.Name,
		Required:    p.Required,
		Description: p.Description,
	}
	if prop.Kind == KindString && len(p.Enum) > 0 {
		prop.Enum = append([]string(nil), p.Enum...)
	}
	switch d := p.Default.(type) {
	case string:
		if prop.Kind == KindString {
			prop.Default = d
		}
	case bool:
		if prop.Kind == KindBoolean {
			prop.Default = d
		}
	default:
		if f, ok := numericDefault(d); ok && prop.Kind == KindNumber {
			prop.Default = f
		}
	}
	return prop
}

func numericDefault(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// Hints are the tool annotations advertised for a tier. Destructive is nil
// when the hint is left unset.
type Hints struct {
	ReadOnly    bool
	Destructive *bool
}

// HintsFor returns the annotations for level. ok is false for an unknown tier.
func HintsFor(level models.SafetyLevel) (h Hints, ok bool) {
	yes, no := true, false
	switch level {
	case models.SafetyRead:
		return Hints{ReadOnly: true}, true
	case models.SafetyWrite:
		return Hints{Destructive: &no}, true
	case models.SafetyDestructive:
		return Hints{Destructive: &yes}, true
	}
	return Hints{}, false
}

// propertyOptionSource renders the mcp-go property option for p.
func propertyOptionSource(p *models.ToolParam) string {
	prop := PropertyFor(p)
	opts := []string{strconv.Quote(prop.Name)}
	if prop.Kind == KindArray {
		opts = append(opts, "mcp.WithStringItems()")
	}
	if prop.Required {
		opts = append(opts, "mcp.Required()")
	}
	if prop.Description != "" {
		opts = append(opts, "mcp.Description("+strconv.Quote(prop.Description)+")")
	}
	if len(prop.Enum) > 0 {
		quoted := make([]string, len(prop.Enum))
		for i, e := range prop.Enum {
			quoted[i] = strconv.Quote(e)
		}
		opts = append(opts, "mcp.Enum("+strings.Join(quoted, ", ")+")")
	}
	switch d := prop.Default.(type) {
	case string:
		opts = append(opts, "mcp.DefaultString("+strconv.Quote(d)+")")
	case bool:
		opts = append(opts, "mcp.DefaultBool("+strconv.FormatBool(d)+")")
	case float64:
		opts = append(opts, "mcp.DefaultNumber("+strconv.FormatFloat(d, 'g', -1, 64)+")")
	}
	return "mcp.With" + prop.Kind + "(" + strings.Join(opts, ", ") + ")"
}

// annotationSources renders the tool annotations for a tier.
func annotationSources(level models.SafetyLevel) []string {
	h, ok := HintsFor(level)
	if !ok {
		return nil
	}
	out := []string{"mcp.WithReadOnlyHintAnnotation(" + strconv.FormatBool(h.ReadOnly) + ")"}
	if h.Destructive != nil {
		out = append(out, "mcp.WithDestructiveHintAnnotation("+strconv.FormatBool(*h.Destructive)+")")
	}
	return out
}
