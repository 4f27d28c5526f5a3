// Version command for the gymkeeper CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gymkeeper/pkg/gymkeeper"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gymkeeper version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gymkeeper v%s\n", gymkeeper.Version)
	},
}
