package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/anvil/internal/mcp"
	"github.com/bobmcallan/anvil/internal/server"
)

var listenAddr string

func init() {
	previewCmd.Flags().StringVar(&listenAddr, "listen", "", "serve streamable HTTP on this address (for example :8000) instead of stdio")
}

// previewCmd serves dry-run tools over stdio or HTTP
var previewCmd = &cobra.Command{
	Use:   "preview <spec>",
	Short: "Serve the classified tools over MCP without calling the API",
	Long: `Start an MCP server whose tools describe the request a generated server
would send (method, URL, query and body) instead of sending it.

Examples:
  # Register with an MCP client as a stdio server
  anvil preview petstore.yaml

  # Serve streamable HTTP at http://localhost:8000/mcp
  anvil preview petstore.yaml --listen :8000`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.ErrOrStderr(), "", "")
	if err != nil {
		return err
	}

	run, err := a.Prepare(cmd.Context(), args[0])
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	s, err := a.PreviewServer(run)
	if err != nil {
		return err
	}

	if listenAddr == "" {
		run.Logger.Info().Str("api", run.Spec.Title).Msg("serving preview on stdio")
		return mcp.ServeStdio(s)
	}

	srv := server.New(run.Logger, listenAddr, s, len(run.Tools()))
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
		run.Logger.Info().Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
