package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/anvil/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "anvil version %s\n", common.GetFullVersion())
	},
}
