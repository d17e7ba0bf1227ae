package synth

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/anvil/internal/models"
)

const mainSource = generatedHeader + `

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := serve(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
`

// renderGoMod emits the dependency manifest.
func renderGoMod(name string) string {
	return fmt.Sprintf("module %s\n\ngo 1.23\n\nrequire %s %s\n", slug(name), mcpGoModule, mcpGoVersion)
}

// renderEnv emits the environment template.
func renderEnv(spec *models.APISpec, prefix string) string {
	var s source
	s.line("# %s MCP Server Configuration", commentText(spec.Title))
	s.line("%s_BASE_URL=%s", prefix, spec.BaseURL)
	s.line("%s_API_KEY=your-api-key-here", prefix)
	return s.String()
}

// projectManifest is the shape of server.json. Field order is fixed.
type projectManifest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Version     string `json:"version"`
	APIVersion  string `json:"api_version"`
	Description string `json:"description"`
	Runtime     string `json:"runtime"`
	Entrypoint  string `json:"entrypoint"`
	Transport   string `json:"transport"`
	Endpoint    string `json:"endpoint"`
}

// renderManifest emits the project manifest.
func renderManifest(spec *models.APISpec, name string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Encoding a struct of strings cannot fail.
	_ = enc.Encode(projectManifest{
		Name:        name,
		Title:       spec.Title,
		Version:     manifestVersion,
		APIVersion:  spec.Version,
		Description: "Auto-generated MCP adapter for " + spec.Title,
		Runtime:     "go",
		Entrypoint:  "main.go",
		Transport:   "streamable-http",
		Endpoint:    "/mcp",
	})
	return buf.String()
}
