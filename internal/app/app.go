// Package app wires configuration, logging and the pipeline stages together.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/config"
	"github.com/bobmcallan/anvil/internal/loader"
	"github.com/bobmcallan/anvil/internal/mcp"
	"github.com/bobmcallan/anvil/internal/mine"
	"github.com/bobmcallan/anvil/internal/models"
	"github.com/bobmcallan/anvil/internal/safety"
	"github.com/bobmcallan/anvil/internal/storage"
	"github.com/bobmcallan/anvil/internal/synth"
)

// App holds the configuration and logger shared by every run.
type App struct {
	Config *config.Config
	Logger *common.Logger
}

// New initializes the application. The safety policy is validated up front
// so a bad policy fails before any spec is read.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if err := cfg.Safety.Validate(); err != nil {
		return nil, err
	}
	a := &App{
		Config: cfg,
		Logger: logger,
	}
	logger.Debug().
		Str("collision", string(cfg.Mining.Collision)).
		Bool("block_destructive", cfg.Safety.BlockDestructive).
		Int("max_tools", cfg.Safety.MaxTools).
		Msg("application initialization complete")
	return a, nil
}

// Run is the state of one pipeline execution.
type Run struct {
	ID         string
	Logger     *common.Logger
	Spec       *models.APISpec
	Mined      *mine.Result
	Classified *safety.Result
	Server     *synth.Result
}

// Tools returns the accepted tools, or nil before classification.
func (r *Run) Tools() []*models.ToolDefinition {
	if r.Classified == nil {
		return nil
	}
	return r.Classified.Accepted
}

// Prepare loads the spec at specPath, then mines and classifies its tools.
func (a *App) Prepare(ctx context.Context, specPath string) (*Run, error) {
	id := uuid.New().String()
	run := &Run{ID: id, Logger: a.Logger.WithCorrelationId(id)}
	run.Logger.Info().Str("run_id", id).Str("spec", specPath).Msg("pipeline run started")

	spec, err := common.Stage(run.Logger, "load", func(l *common.Logger) (*models.APISpec, error) {
		spec, err := loader.Load(specPath)
		if err != nil {
			return nil, err
		}
		l.Info().
			Str("title", spec.Title).
			Str("version", spec.Version).
			Int("endpoints", len(spec.Endpoints)).
			Msg("spec loaded")
		return spec, nil
	})
	if err != nil {
		return nil, err
	}
	run.Spec = spec

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	run.Mined, err = common.Stage(run.Logger, "mine", func(l *common.Logger) (*mine.Result, error) {
		return mine.Mine(l, spec, a.Config.Mining), nil
	})
	if err != nil {
		return nil, err
	}

	run.Classified, err = common.Stage(run.Logger, "classify", func(l *common.Logger) (*safety.Result, error) {
		return safety.Classify(l, run.Mined.Tools, a.Config.Safety)
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Generate runs the full pipeline and writes the artifacts to the configured
// output directory, or keeps them in memory when dryRun is set.
func (a *App) Generate(ctx context.Context, specPath string, dryRun bool) (*Run, error) {
	run, err := a.Prepare(ctx, specPath)
	if err != nil {
		return nil, err
	}

	store := storage.NewArtifactStore(run.Logger, a.Config.Output.Dir, dryRun)
	opts := synth.Options{ServerName: a.Config.Output.ServerName}
	run.Server, err = common.Stage(run.Logger, "synthesize", func(l *common.Logger) (*synth.Result, error) {
		return synth.Generate(ctx, l, run.Spec, run.Tools(), opts, store)
	})
	if err != nil {
		return nil, err
	}

	run.Logger.Info().
		Str("server_name", run.Server.ServerName).
		Str("output_dir", run.Server.OutputDir).
		Int("tools", run.Server.ToolCount).
		Msg("pipeline run complete")
	return run, nil
}

// PreviewServer builds a dry-run MCP server for the run's accepted tools.
func (a *App) PreviewServer(run *Run) (*server.MCPServer, error) {
	if run.Spec == nil || run.Classified == nil {
		return nil, fmt.Errorf("run %s has not been prepared", run.ID)
	}
	return mcp.NewPreviewServer(run.Logger, run.Spec, run.Tools()), nil
}
