package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bobmcallan/anvil/internal/models"
)

func writeSpec(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write spec: %v", err)
	}
	return path
}

const petJSON = `{
	"title": "Pet Store API",
	"version": "1.0.0",
	"base_url": "https://api.petstore.io",
	"auth_schemes": [{"name": "key", "scheme_type": "apiKey", "header_name": "X-API-Key"}],
	"endpoints": [
		{
			"method": "get",
			"path": "/pets/{petId}",
			"summary": "Find pet by ID",
			"parameters": [
				{"name": "petId", "location": "path", "required": true, "type": "integer"},
				{"name": "limit", "location": "query", "default": 20}
			]
		}
	]
}`

const petYAML = `title: Pet Store API
base_url: https://api.petstore.io
endpoints:
  - method: POST
    path: /pets
    tags: [pets]
    parameters:
      - name: name
        location: body
        required: true
      - name: photo
        location: form
`

func TestLoad_JSON(t *testing.T) {
	spec, err := Load(writeSpec(t, "pets.json", petJSON))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if spec.Title != "Pet Store API" || spec.BaseURL != "https://api.petstore.io" {
		t.Errorf("unexpected spec header %+v", spec)
	}
	if len(spec.Endpoints) != 1 {
		t.Fatalf("expected 1 endpoint, got %d", len(spec.Endpoints))
	}
	ep := spec.Endpoints[0]
	if ep.Method != models.MethodGet {
		t.Errorf("expected method to be normalized to GET, got %s", ep.Method)
	}
	if ep.Parameters[0].Location != models.LocationPath || !ep.Parameters[0].Required {
		t.Errorf("unexpected first parameter %+v", ep.Parameters[0])
	}
	if ep.Parameters[1].Default != float64(20) {
		t.Errorf("expected default 20, got %v", ep.Parameters[1].Default)
	}
	if spec.AuthSchemes[0].HeaderName != "X-API-Key" {
		t.Errorf("unexpected auth schemes %+v", spec.AuthSchemes)
	}
}

func TestLoad_YAML(t *testing.T) {
	spec, err := Load(writeSpec(t, "pets.yml", petYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ep := spec.Endpoints[0]
	if ep.Method != models.MethodPost || ep.Path != "/pets" {
		t.Errorf("unexpected endpoint %+v", ep)
	}
	if ep.Parameters[1].Location != models.LocationForm {
		t.Errorf("expected form alias to map to formData, got %s", ep.Parameters[1].Location)
	}
	if len(ep.Tags) != 1 || ep.Tags[0] != "pets" {
		t.Errorf("unexpected tags %v", ep.Tags)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	if _, err := Load(writeSpec(t, "pets.txt", petJSON)); err == nil {
		t.Fatal("expected error for .txt spec")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLoad_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"bad method", "a.json", `{"title":"x","endpoints":[{"method":"FETCH","path":"/a"}]}`, "FETCH"},
		{"bad location", "a.json", `{"title":"x","endpoints":[{"method":"GET","path":"/a","parameters":[{"name":"q","location":"matrix"}]}]}`, "matrix"},
		{"missing path", "a.json", `{"title":"x","endpoints":[{"method":"GET"}]}`, "missing path"},
		{"missing method", "a.json", `{"title":"x","endpoints":[{"path":"/a"}]}`, "unsupported HTTP method"},
		{"missing param name", "a.yaml", "endpoints:\n  - method: GET\n    path: /a\n    parameters:\n      - location: query\n", "missing name"},
		{"unknown field", "a.json", `{"title":"x","servers":[]}`, "servers"},
		{"unknown yaml field", "a.yaml", "title: x\nhost: example\n", "host"},
		{"malformed json", "a.json", `{"title":`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSpec(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("expected ErrInvalidSpec, got %v", err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error to mention %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDecode_EmptyYAML(t *testing.T) {
	spec, err := Decode(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Fatalf("empty YAML should decode to an empty spec: %v", err)
	}
	if len(spec.Endpoints) != 0 {
		t.Errorf("expected no endpoints, got %d", len(spec.Endpoints))
	}
}

func TestValidate_EmptyLocationAllowed(t *testing.T) {
	spec := &models.APISpec{Endpoints: []models.Endpoint{{
		Method:     models.MethodGet,
		Path:       "/a",
		Parameters: []models.ParamSchema{{Name: "q"}},
	}}}
	if err := Validate(spec); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecode_NumericEnum(t *testing.T) {
	doc := `{"title": "T", "endpoints": [{"method": "GET", "path": "/x",
		"parameters": [{"name": "level", "location": "query", "type": "integer", "enum": [1, 2]}]}]}`
	spec, err := Decode(strings.NewReader(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	enum := spec.Endpoints[0].Parameters[0].Enum
	if len(enum) != 2 || enum[0] != float64(1) {
		t.Errorf("unexpected enum %#v", enum)
	}
}
