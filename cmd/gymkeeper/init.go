// Init command eagerly initializes the storage backend.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gymkeeper storage",
	Long: `Init creates the configuration and data directories, opens the
storage backend, applies the schema, and seeds default rows.

Running it again is harmless; every step is idempotent.

Example:
  gymkeeper init
  gymkeeper init --data-dir /srv/gym/data`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := gymStore.Initialize(cmd.Context()); err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Gymkeeper initialized (backend: %s)\n", gymStore.Backend())
	return nil
}
