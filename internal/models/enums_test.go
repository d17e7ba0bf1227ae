package models

import (
	"encoding/json"
	"testing"
)

func TestParseHTTPMethod(t *testing.T) {
	for in, want := range map[string]HTTPMethod{"get": MethodGet, " Delete ": MethodDelete, "OPTIONS": MethodOptions} {
		got, err := ParseHTTPMethod(in)
		if err != nil || got != want {
			t.Errorf("ParseHTTPMethod(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParseHTTPMethod("TRACE"); err == nil {
		t.Error("expected TRACE to be rejected")
	}
}

func TestHTTPMethod_Classification(t *testing.T) {
	tests := []struct {
		method HTTPMethod
		safety SafetyLevel
		verb   string
		query  bool
	}{
		{MethodGet, SafetyRead, "get", true},
		{MethodHead, SafetyRead, "head", true},
		{MethodOptions, SafetyRead, "options", true},
		{MethodPost, SafetyWrite, "create", false},
		{MethodPut, SafetyWrite, "update", false},
		{MethodPatch, SafetyWrite, "update", false},
		{MethodDelete, SafetyDestructive, "delete", false},
	}
	for _, tt := range tests {
		if got := tt.method.InitialSafety(); got != tt.safety {
			t.Errorf("%s: expected safety %s, got %s", tt.method, tt.safety, got)
		}
		if got := tt.method.Verb(); got != tt.verb {
			t.Errorf("%s: expected verb %s, got %s", tt.method, tt.verb, got)
		}
		if got := tt.method.SendsQueryByDefault(); got != tt.query {
			t.Errorf("%s: expected query default %v, got %v", tt.method, tt.query, got)
		}
	}
}

func TestParseParamLocation(t *testing.T) {
	for in, want := range map[string]ParamLocation{"query": LocationQuery, "formData": LocationForm, "form": LocationForm, "HEADER": LocationHeader} {
		got, err := ParseParamLocation(in)
		if err != nil || got != want {
			t.Errorf("ParseParamLocation(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParseParamLocation("matrix"); err == nil {
		t.Error("expected matrix to be rejected")
	}
}

func TestSafetyLevel_Ordering(t *testing.T) {
	if SafetyRead.Max(SafetyWrite) != SafetyWrite {
		t.Error("write should outrank read")
	}
	if SafetyDestructive.Max(SafetyRead) != SafetyDestructive {
		t.Error("max should never lower a tier")
	}
	for i, lvl := range SafetyLevels {
		if lvl.Rank() != i {
			t.Errorf("%s: expected rank %d, got %d", lvl, i, lvl.Rank())
		}
	}
}

func TestNormalizeType(t *testing.T) {
	for in, want := range map[string]JSONType{
		"int": TypeInteger, "integer": TypeInteger, "float": TypeNumber, "bool": TypeBoolean,
		"array": TypeArray, "object": TypeObject, "uuid": TypeString, "": TypeString,
	} {
		if got := NormalizeType(in); got != want {
			t.Errorf("NormalizeType(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestEndpoint_UnmarshalValidatesTags(t *testing.T) {
	var ep Endpoint
	if err := json.Unmarshal([]byte(`{"method":"patch","path":"/a","parameters":[{"name":"f","location":"form"}]}`), &ep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.Method != MethodPatch || ep.Parameters[0].Location != LocationForm {
		t.Errorf("tags not canonicalized: %+v", ep)
	}
	if err := json.Unmarshal([]byte(`{"method":"FETCH","path":"/a"}`), &ep); err == nil {
		t.Error("expected unknown method to fail")
	}
}

func TestPrimaryEndpoint(t *testing.T) {
	if _, ok := (&ToolDefinition{}).PrimaryEndpoint(); ok {
		t.Error("tool without endpoints has no primary endpoint")
	}
	ep := &Endpoint{Method: MethodGet, Path: "/a"}
	got, ok := (&ToolDefinition{Endpoints: []*Endpoint{ep, {Path: "/b"}}}).PrimaryEndpoint()
	if !ok || got != ep {
		t.Error("expected the first endpoint")
	}
}
