// Package synth renders a tool list and its API metadata into the source of
// a runnable MCP server built on mcp-go.
//
// Render is pure: identical inputs produce byte-identical artifacts.
// Generate adds the write through an artifact store.
package synth

import (
	"context"
	"fmt"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/interfaces"
	"github.com/bobmcallan/anvil/internal/models"
)

// Artifact paths, in emission order.
const (
	ServerFile   = "server.go"
	VerifyFile   = "verify/main.go"
	GoModFile    = "go.mod"
	EnvFile      = ".env.example"
	MainFile     = "main.go"
	ManifestFile = "server.json"
)

// Options tunes rendering.
type Options struct {
	// ServerName overrides the name derived from the spec title.
	ServerName string
}

// Result describes a rendered server.
type Result struct {
	ServerName string
	EnvPrefix  string
	Auth       Auth
	ToolCount  int
	Artifacts  []models.Artifact
	OutputDir  string
}

// Artifact returns the rendered artifact at path.
func (r *Result) Artifact(path string) (models.Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Path == path {
			return a, true
		}
	}
	return models.Artifact{}, false
}

// Plans builds the call plan of every tool with deterministic, unique
// handler names.
func Plans(tools []*models.ToolDefinition) []*CallPlan {
	handlers := identSet{}
	plans := make([]*CallPlan, len(tools))
	for i, td := range tools {
		plans[i] = PlanCall(td, handlers.claim(HandlerName(td.Name)))
	}
	return plans
}

// Render produces the six artifacts for spec and tools. It never fails.
func Render(spec *models.APISpec, tools []*models.ToolDefinition, opts Options) *Result {
	name := ServerName(spec.Title, opts.ServerName)
	prefix := EnvPrefix(spec.Title)
	auth := InferAuth(spec.AuthSchemes)
	plans := Plans(tools)

	return &Result{
		ServerName: name,
		EnvPrefix:  prefix,
		Auth:       auth,
		ToolCount:  len(tools),
		Artifacts: []models.Artifact{
			{Path: ServerFile, Content: renderServer(spec, tools, plans, name, prefix, auth)},
			{Path: VerifyFile, Content: renderVerify(spec, tools)},
			{Path: GoModFile, Content: renderGoMod(name)},
			{Path: EnvFile, Content: renderEnv(spec, prefix)},
			{Path: MainFile, Content: mainSource},
			{Path: ManifestFile, Content: renderManifest(spec, name)},
		},
	}
}

// Generate renders the artifacts and, when store is non-nil, commits them.
// Store errors are returned unrecovered.
func Generate(ctx context.Context, logger *common.Logger, spec *models.APISpec, tools []*models.ToolDefinition, opts Options, store interfaces.ArtifactStore) (*Result, error) {
	res := Render(spec, tools, opts)

	scheme := res.Auth.Scheme
	if scheme == "" {
		scheme = "(none)"
	}
	logger.Info().
		Str("server_name", res.ServerName).
		Str("env_prefix", res.EnvPrefix).
		Str("auth_header", res.Auth.Header).
		Str("auth_scheme", scheme).
		Int("tools", res.ToolCount).
		Msg("rendered server")

	if store == nil {
		return res, nil
	}
	dir, err := store.Commit(ctx, res.Artifacts)
	if err != nil {
		return nil, fmt.Errorf("failed to write artifacts: %w", err)
	}
	res.OutputDir = dir
	return res, nil
}
