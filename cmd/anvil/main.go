// Package main implements the anvil CLI, which turns a normalized API
// description into a runnable MCP server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/anvil/internal/app"
	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/config"
)

var (
	// configFiles may be given multiple times; later files win.
	configFiles []string
	verbose     bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "anvil",
	Short: "Generate MCP servers from API descriptions",
	Long: `anvil mines the capabilities of an API description, classifies them by
risk and renders a standalone MCP server that exposes them as tools.

Examples:
  # Generate a server into ./generated
  anvil generate petstore.json

  # Inspect the tool schemas without writing anything
  anvil tools petstore.yaml

  # Try the tools from an MCP client without calling the API
  anvil preview petstore.yaml`,
	Version:       common.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "configuration file path (can be specified multiple times)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadApp resolves configuration, applies flag overrides and builds the app.
// Configuration issues are printed to errOut.
func loadApp(errOut io.Writer, outputDir, serverName string) (*app.App, error) {
	files := configFiles
	if len(files) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return nil, err
	}
	config.ApplyFlagOverrides(cfg, outputDir, serverName, verbose)

	if issues := cfg.Validate(); len(issues) > 0 {
		printIssues(errOut, issues)
		return nil, fmt.Errorf("invalid configuration: %d issue(s)", len(issues))
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Debug().
		Strs("config_files", files).
		Str("output_dir", cfg.Output.Dir).
		Msg("configuration loaded")

	a, err := app.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return nil, err
	}
	return a, nil
}

func printIssues(w io.Writer, issues []string) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Configuration error — invalid values:")
	fmt.Fprintln(w, "")
	for _, issue := range issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Values can be set via TOML file, ANVIL_* environment variables, or CLI flags.")
	fmt.Fprintln(w, "")
}
