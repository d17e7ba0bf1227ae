package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/anvil/internal/mcp"
)

// toolsCmd prints the MCP tool schemas a generated server would advertise
var toolsCmd = &cobra.Command{
	Use:   "tools <spec>",
	Short: "Print the classified tool schemas as JSON",
	Long: `Mine and classify an API description and print the resulting MCP tool
schemas as JSON. Nothing is written.

Examples:
  anvil tools petstore.json | jq '.[].name'`,
	Args: cobra.ExactArgs(1),
	RunE: runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.ErrOrStderr(), "", "")
	if err != nil {
		return err
	}

	run, err := a.Prepare(cmd.Context(), args[0])
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(mcp.BuildTools(run.Tools()))
}
