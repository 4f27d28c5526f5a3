// Clear command wipes all membership data.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all members, reminders, and payments",
	Long: `Clear removes every payment transaction, reminder, and member in one
transaction. Either everything is deleted or nothing is. User credentials
and backup settings are kept.

Requires --yes to run.

Example:
  gymkeeper clear --yes`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "confirm deletion of all data")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to clear all data without --yes")
	}

	if err := gymStore.ClearAllData(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "All membership data cleared.")
	return nil
}
