package models

// ToolParam is one flattened parameter of a synthesized tool.
type ToolParam struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        JSONType `json:"type"`
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
	Default     any      `json:"default,omitempty"`
}

// ToolDefinition is one callable capability wrapping one or more endpoints.
//
// Records are shared by pointer between stages: the miner creates them, the
// classifier mutates Safety, Description and parameter descriptions in place,
// and the synthesizer only reads them. A slice returned by the classifier
// aliases the records it was given.
type ToolDefinition struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Safety      SafetyLevel  `json:"safety"`
	Params      []*ToolParam `json:"params"`
	Endpoints   []*Endpoint  `json:"-"`
	Tags        []string     `json:"tags,omitempty"`
}

// PrimaryEndpoint returns the first wrapped endpoint, the only one a
// generated handler calls.
func (t *ToolDefinition) PrimaryEndpoint() (*Endpoint, bool) {
	if len(t.Endpoints) == 0 {
		return nil, false
	}
	return t.Endpoints[0], true
}

// ToolNames returns the names of the given tools in order.
func ToolNames(tools []*ToolDefinition) []string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return names
}
