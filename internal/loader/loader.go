// Package loader reads a normalized API description from disk.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bobmcallan/anvil/internal/models"
)

// ErrInvalidSpec is wrapped by every validation failure.
var ErrInvalidSpec = errors.New("invalid API spec")

// Format is the encoding of a spec document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported spec file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// Load reads and validates the spec at path. A path of "-" reads JSON from stdin.
func Load(path string) (*models.APISpec, error) {
	if path == "-" {
		return Decode(os.Stdin, FormatJSON)
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file %s: %w", path, err)
	}
	spec, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// Decode parses one spec document. Unknown fields are rejected.
func Decode(r io.Reader, format Format) (*models.APISpec, error) {
	var spec models.APISpec
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
		}
	default:
		return nil, fmt.Errorf("unsupported spec format %q", format)
	}
	if err := Validate(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks required fields and canonicalizes the closed-set tags in
// place. An empty parameter location is allowed and leaves placement to the
// HTTP method.
func Validate(spec *models.APISpec) error {
	var issues []string
	for i := range spec.Endpoints {
		ep := &spec.Endpoints[i]
		where := fmt.Sprintf("endpoints[%d]", i)
		if ep.Path == "" {
			issues = append(issues, where+": missing path")
		} else {
			where += " " + ep.Path
		}
		if m, err := models.ParseHTTPMethod(string(ep.Method)); err != nil {
			issues = append(issues, where+": "+err.Error())
		} else {
			ep.Method = m
		}
		for j := range ep.Parameters {
			p := &ep.Parameters[j]
			if p.Name == "" {
				issues = append(issues, fmt.Sprintf("%s: parameters[%d]: missing name", where, j))
			}
			if p.Location == "" {
				continue
			}
			loc, err := models.ParseParamLocation(string(p.Location))
			if err != nil {
				issues = append(issues, fmt.Sprintf("%s: parameters[%d]: %v", where, j, err))
				continue
			}
			p.Location = loc
		}
	}
	if len(issues) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSpec, strings.Join(issues, "; "))
	}
	return nil
}
