package models

import (
	"fmt"
	"strings"
)

// HTTPMethod is one of the upstream HTTP verbs the pipeline understands.
type HTTPMethod string

const (
	MethodGet     HTTPMethod = "GET"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodPatch   HTTPMethod = "PATCH"
	MethodDelete  HTTPMethod = "DELETE"
	MethodHead    HTTPMethod = "HEAD"
	MethodOptions HTTPMethod = "OPTIONS"
)

// ParseHTTPMethod parses a method name case-insensitively.
func ParseHTTPMethod(s string) (HTTPMethod, error) {
	switch m := HTTPMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions:
		return m, nil
	}
	return "", fmt.Errorf("unsupported HTTP method %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *HTTPMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseHTTPMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// InitialSafety is the tier implied by the method alone.
func (m HTTPMethod) InitialSafety() SafetyLevel {
	switch m {
	case MethodDelete:
		return SafetyDestructive
	case MethodPost, MethodPut, MethodPatch:
		return SafetyWrite
	case MethodGet, MethodHead, MethodOptions:
		return SafetyRead
	}
	return SafetyRead
}

// Verb is the action word used when naming a tool after this method.
func (m HTTPMethod) Verb() string {
	switch m {
	case MethodGet:
		return "get"
	case MethodPost:
		return "create"
	case MethodPut, MethodPatch:
		return "update"
	case MethodDelete:
		return "delete"
	case MethodHead:
		return "head"
	case MethodOptions:
		return "options"
	}
	return strings.ToLower(string(m))
}

// SendsQueryByDefault reports whether unlocated parameters travel in the
// query string (true) or in the JSON body (false).
func (m HTTPMethod) SendsQueryByDefault() bool {
	switch m {
	case MethodGet, MethodHead, MethodOptions:
		return true
	case MethodPost, MethodPut, MethodPatch, MethodDelete:
		return false
	}
	return true
}

// ParamLocation is where a parameter lives in an HTTP request.
type ParamLocation string

const (
	LocationQuery  ParamLocation = "query"
	LocationPath   ParamLocation = "path"
	LocationHeader ParamLocation = "header"
	LocationCookie ParamLocation = "cookie"
	LocationBody   ParamLocation = "body"
	LocationForm   ParamLocation = "formData"
)

// ParseParamLocation parses a location tag. "form" is accepted for formData.
func ParseParamLocation(s string) (ParamLocation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "query":
		return LocationQuery, nil
	case "path":
		return LocationPath, nil
	case "header":
		return LocationHeader, nil
	case "cookie":
		return LocationCookie, nil
	case "body":
		return LocationBody, nil
	case "formdata", "form":
		return LocationForm, nil
	}
	return "", fmt.Errorf("unsupported parameter location %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *ParamLocation) UnmarshalText(text []byte) error {
	parsed, err := ParseParamLocation(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// SafetyLevel is the ordered risk tier READ < WRITE < DESTRUCTIVE.
type SafetyLevel string

const (
	SafetyRead        SafetyLevel = "read"
	SafetyWrite       SafetyLevel = "write"
	SafetyDestructive SafetyLevel = "destructive"
)

// SafetyLevels lists every tier in ascending order.
var SafetyLevels = []SafetyLevel{SafetyRead, SafetyWrite, SafetyDestructive}

// Rank returns 0, 1, 2 for READ, WRITE, DESTRUCTIVE.
func (s SafetyLevel) Rank() int {
	switch s {
	case SafetyRead:
		return 0
	case SafetyWrite:
		return 1
	case SafetyDestructive:
		return 2
	}
	return 0
}

// Max returns the higher of the two tiers.
func (s SafetyLevel) Max(other SafetyLevel) SafetyLevel {
	if other.Rank() > s.Rank() {
		return other
	}
	return s
}

// ParseSafetyLevel parses a tier name case-insensitively.
func ParseSafetyLevel(str string) (SafetyLevel, error) {
	switch lvl := SafetyLevel(strings.ToLower(strings.TrimSpace(str))); lvl {
	case SafetyRead, SafetyWrite, SafetyDestructive:
		return lvl, nil
	}
	return "", fmt.Errorf("unsupported safety level %q", str)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SafetyLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseSafetyLevel(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// JSONType is the normalized type tag of a tool parameter.
type JSONType string

const (
	TypeString  JSONType = "string"
	TypeInteger JSONType = "integer"
	TypeNumber  JSONType = "number"
	TypeBoolean JSONType = "boolean"
	TypeArray   JSONType = "array"
	TypeObject  JSONType = "object"
)

// NormalizeType maps a declared schema type alias onto a JSONType.
// Unrecognized aliases become string.
func NormalizeType(alias string) JSONType {
	switch strings.ToLower(strings.TrimSpace(alias)) {
	case "integer", "int":
		return TypeInteger
	case "number", "float":
		return TypeNumber
	case "boolean", "bool":
		return TypeBoolean
	case "array":
		return TypeArray
	case "object":
		return TypeObject
	}
	return TypeString
}
