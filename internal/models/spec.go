// Package models holds the normalized API description and the tool records
// that flow through mining, classification and synthesis.
package models

// ParamSchema describes one parameter of an upstream endpoint.
type ParamSchema struct {
	Name        string        `json:"name" yaml:"name"`
	Location    ParamLocation `json:"location" yaml:"location"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool          `json:"required,omitempty" yaml:"required,omitempty"`
	SchemaType  string        `json:"type,omitempty" yaml:"type,omitempty"`
	Enum        []any         `json:"enum,omitempty" yaml:"enum,omitempty"`
	Default     any           `json:"default,omitempty" yaml:"default,omitempty"`
	Example     any           `json:"example,omitempty" yaml:"example,omitempty"`
}

// ResponseSchema is a lightweight description of one endpoint response.
type ResponseSchema struct {
	StatusCode   int            `json:"status_code" yaml:"status_code"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	ContentType  string         `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	SchemaFields map[string]any `json:"schema_fields,omitempty" yaml:"schema_fields,omitempty"`
}

// Endpoint is one upstream operation. It is never mutated after ingestion.
type Endpoint struct {
	Method            HTTPMethod       `json:"method" yaml:"method"`
	Path              string           `json:"path" yaml:"path"`
	OperationID       string           `json:"operation_id,omitempty" yaml:"operation_id,omitempty"`
	Summary           string           `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description       string           `json:"description,omitempty" yaml:"description,omitempty"`
	Tags              []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
	Parameters        []ParamSchema    `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBodySchema map[string]any   `json:"request_body_schema,omitempty" yaml:"request_body_schema,omitempty"`
	Responses         []ResponseSchema `json:"responses,omitempty" yaml:"responses,omitempty"`
	AuthSchemes       []string         `json:"auth_schemes,omitempty" yaml:"auth_schemes,omitempty"`
	Deprecated        bool             `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// FindParam returns the endpoint's own parameter with the given name.
func (e *Endpoint) FindParam(name string) (ParamSchema, bool) {
	for _, p := range e.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSchema{}, false
}

// AuthScheme is a credential mechanism declared by the upstream API.
type AuthScheme struct {
	Name       string         `json:"name" yaml:"name"`
	SchemeType string         `json:"scheme_type" yaml:"scheme_type"` // http | apiKey | oauth2 | openIdConnect
	Location   string         `json:"location,omitempty" yaml:"location,omitempty"`
	HeaderName string         `json:"header_name,omitempty" yaml:"header_name,omitempty"`
	Flows      map[string]any `json:"flows,omitempty" yaml:"flows,omitempty"`
}

// APISpec is the source-agnostic description consumed by every stage.
// The pipeline treats it as read-only.
type APISpec struct {
	Title       string         `json:"title" yaml:"title"`
	Version     string         `json:"version,omitempty" yaml:"version,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	BaseURL     string         `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	AuthSchemes []AuthScheme   `json:"auth_schemes,omitempty" yaml:"auth_schemes,omitempty"`
	Endpoints   []Endpoint     `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
	Tags        []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	RawMeta     map[string]any `json:"raw_meta,omitempty" yaml:"raw_meta,omitempty"`
}
