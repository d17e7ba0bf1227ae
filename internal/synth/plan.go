package synth

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/bobmcallan/anvil/internal/models"
)

var placeholderRE = regexp.MustCompile(`\{([^}]+)\}`)

// Target is where a tool argument travels in the outbound request.
type Target int

const (
	TargetPath Target = iota
	TargetQuery
	TargetBody
)

func (t Target) String() string {
	switch t {
	case TargetPath:
		return "path"
	case TargetQuery:
		return "query"
	case TargetBody:
		return "body"
	}
	return "unknown"
}

// Field is one tool parameter bound to a handler local.
type Field struct {
	Param  *models.ToolParam
	Ident  string
	Target Target
}

// Segment is a literal run of the path template or a placeholder.
// Field is nil for a placeholder with no matching tool parameter.
type Segment struct {
	Literal     string
	Placeholder string
	Field       *Field
}

// CallPlan describes the request a tool handler sends. Only the tool's first
// endpoint is ever called; Alternates lists the others for documentation.
type CallPlan struct {
	Tool        string
	Handler     string
	Method      models.HTTPMethod
	Path        string
	Segments    []Segment
	Fields      []*Field
	Alternates  []string
	HasEndpoint bool
}

// Required returns the required fields in order.
func (p *CallPlan) Required() []*Field {
	var out []*Field
	for _, f := range p.Fields {
		if f.Param.Required {
			out = append(out, f)
		}
	}
	return out
}

// ByTarget returns the fields sent in the given part of the request.
func (p *CallPlan) ByTarget(t Target) []*Field {
	var out []*Field
	for _, f := range p.Fields {
		if f.Target == t {
			out = append(out, f)
		}
	}
	return out
}

// UsesArgs reports whether the handler reads its call arguments.
func (p *CallPlan) UsesArgs() bool {
	if len(p.Fields) > 0 {
		return true
	}
	for _, s := range p.Segments {
		if s.Placeholder != "" {
			return true
		}
	}
	return false
}

// PlanCall builds the call plan for td. Required parameters come before
// optional ones; locations come from the first endpoint's own parameter
// metadata, and anything unlocated goes to the method's default.
func PlanCall(td *models.ToolDefinition, handler string) *CallPlan {
	plan := &CallPlan{Tool: td.Name, Handler: handler}
	ep, ok := td.PrimaryEndpoint()
	if !ok {
		return plan
	}
	plan.HasEndpoint = true
	plan.Method = ep.Method
	plan.Path = ep.Path
	for _, alt := range td.Endpoints[1:] {
		plan.Alternates = append(plan.Alternates, fmt.Sprintf("%s %s", alt.Method, alt.Path))
	}

	placeholders := make(map[string]bool)
	for _, m := range placeholderRE.FindAllStringSubmatch(ep.Path, -1) {
		placeholders[m[1]] = true
	}

	idents := identSet{}
	byName := make(map[string]*Field, len(td.Params))
	for _, pass := range []bool{true, false} {
		for _, p := range td.Params {
			if p.Required != pass {
				continue
			}
			f := &Field{
				Param:  p,
				Ident:  idents.claim(Identifier(p.Name)),
				Target: target(ep, p.Name, placeholders[p.Name]),
			}
			plan.Fields = append(plan.Fields, f)
			byName[p.Name] = f
		}
	}

	plan.Segments = segments(ep.Path, byName)
	return plan
}

func target(ep *models.Endpoint, name string, inTemplate bool) Target {
	if inTemplate {
		return TargetPath
	}
	fallback := TargetBody
	if ep.Method.SendsQueryByDefault() {
		fallback = TargetQuery
	}
	ps, ok := ep.FindParam(name)
	if !ok {
		return fallback
	}
	switch ps.Location {
	case models.LocationQuery:
		return TargetQuery
	case models.LocationBody, models.LocationForm:
		return TargetBody
	case models.LocationPath, models.LocationHeader, models.LocationCookie:
		return fallback
	}
	return fallback
}

func segments(path string, byName map[string]*Field) []Segment {
	var out []Segment
	last := 0
	for _, loc := range placeholderRE.FindAllStringSubmatchIndex(path, -1) {
		if loc[0] > last {
			out = append(out, Segment{Literal: path[last:loc[0]]})
		}
		name := path[loc[2]:loc[3]]
		out = append(out, Segment{Placeholder: name, Field: byName[name]})
		last = loc[1]
	}
	if last < len(path) || len(out) == 0 {
		out = append(out, Segment{Literal: path[last:]})
	}
	return out
}

// Request is a resolved outbound call.
type Request struct {
	Method models.HTTPMethod `json:"method"`
	Path   string            `json:"path"`
	Query  map[string]any    `json:"query,omitempty"`
	Body   map[string]any    `json:"body,omitempty"`
}

// Resolve applies call arguments to the plan the same way the generated
// handler does. It fails when a required argument is missing.
func (p *CallPlan) Resolve(args map[string]any) (*Request, error) {
	if !p.HasEndpoint {
		return nil, fmt.Errorf("no endpoint configured")
	}
	var missing []string
	for _, f := range p.Required() {
		if args[f.Param.Name] == nil {
			missing = append(missing, f.Param.Name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required arguments: %s", strings.Join(missing, ", "))
	}

	value := func(f *Field) any {
		if v, ok := args[f.Param.Name]; ok && v != nil {
			return v
		}
		return f.Param.Default
	}

	var b strings.Builder
	for _, s := range p.Segments {
		switch {
		case s.Placeholder == "":
			b.WriteString(s.Literal)
		case s.Field != nil:
			b.WriteString(pathValue(value(s.Field)))
		default:
			b.WriteString(pathValue(args[s.Placeholder]))
		}
	}

	req := &Request{Method: p.Method, Path: b.String()}
	for _, f := range p.Fields {
		v := value(f)
		if v == nil {
			continue
		}
		switch f.Target {
		case TargetQuery:
			if req.Query == nil {
				req.Query = map[string]any{}
			}
			req.Query[f.Param.Name] = v
		case TargetBody:
			if req.Body == nil {
				req.Body = map[string]any{}
			}
			req.Body[f.Param.Name] = v
		case TargetPath:
		}
	}
	return req, nil
}

func pathValue(v any) string {
	if v == nil {
		return ""
	}
	return url.PathEscape(fmt.Sprint(v))
}
