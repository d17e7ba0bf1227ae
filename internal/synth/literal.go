package synth

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// goLiteral renders v as a Go expression of dynamic type any. Composite
// values are embedded as JSON and decoded by the generated jsonValue helper.
func goLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32:
		return floatLiteral(float64(x))
	case float64:
		return floatLiteral(x)
	case json.Number:
		return x.String()
	}
	data, err := json.Marshal(normalizeJSON(v))
	if err != nil {
		return strconv.Quote(fmt.Sprint(v))
	}
	return "jsonValue(" + strconv.Quote(string(data)) + ")"
}

func floatLiteral(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "nil"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// normalizeJSON converts map[any]any values, as produced by some YAML
// decoders, into map[string]any so they can be marshaled.
func normalizeJSON(v any) any {
	switch x := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalizeJSON(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalizeJSON(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalizeJSON(val)
		}
		return out
	}
	return v
}

// commentText flattens s onto one line for use inside a // comment.
func commentText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
