package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/anvil/internal/app"
	"github.com/bobmcallan/anvil/internal/models"
)

var (
	outputDir  string
	serverName string
	dryRun     bool
)

func init() {
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")
	generateCmd.Flags().StringVar(&serverName, "name", "", "server name (overrides the name derived from the API title)")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "render the server without writing files")
}

// generateCmd runs the full pipeline
var generateCmd = &cobra.Command{
	Use:   "generate <spec>",
	Short: "Generate an MCP server from an API description",
	Long: `Load a normalized API description (.json, .yaml or .yml), mine its
capabilities, classify them by risk and write a runnable MCP server.

Examples:
  anvil generate petstore.json -o ./petstore-mcp
  anvil generate petstore.yaml --name pets --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.ErrOrStderr(), outputDir, serverName)
	if err != nil {
		return err
	}

	run, err := a.Generate(cmd.Context(), args[0], dryRun)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	printSummary(cmd.OutOrStdout(), run.Summary())
	return nil
}

func printSummary(w io.Writer, s app.Summary) {
	fmt.Fprintf(w, "%s: %d endpoints -> %d tools mined, %d accepted\n", s.API, s.Endpoints, s.Mined, s.Accepted)
	fmt.Fprintf(w, "  read: %d  write: %d  destructive: %d\n",
		s.Tiers[models.SafetyRead], s.Tiers[models.SafetyWrite], s.Tiers[models.SafetyDestructive])
	for _, d := range s.Dropped {
		fmt.Fprintf(w, "  dropped %s (%s %s): name taken by %s\n", d.Name, d.Method, d.Path, d.Conflict)
	}
	for _, r := range s.Rejected {
		fmt.Fprintf(w, "  rejected %s: %s\n", r.Name, r.Reason)
	}
	if s.ServerName == "" {
		return
	}
	fmt.Fprintf(w, "Server %s (env prefix %s)\n", s.ServerName, s.EnvPrefix)
	if s.OutputDir != "" {
		fmt.Fprintf(w, "  written to %s\n", s.OutputDir)
	}
	fmt.Fprintf(w, "  artifacts: %s\n", strings.Join(s.Artifacts, ", "))
}
