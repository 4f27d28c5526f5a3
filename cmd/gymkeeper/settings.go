// Settings commands read and change the backup settings.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change backup settings",
}

var (
	settingsFrequency string
	settingsEnabled   bool
)

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the backup settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the backup settings",
	Long: `Set updates the backup frequency and enabled flag.

Example:
  gymkeeper settings set --frequency daily --enabled
  gymkeeper settings set --enabled=false`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingsFrequency, "frequency", "", "backup frequency: daily, weekly, monthly, yearly")
	settingsSetCmd.Flags().BoolVar(&settingsEnabled, "enabled", false, "enable automatic backups")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	settings, err := gymStore.GetBackupSettings(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, settings)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Frequency: %s\n", settings.Frequency)
	fmt.Fprintf(out, "Enabled:   %t\n", settings.IsEnabled)
	if settings.LastBackup != nil {
		fmt.Fprintf(out, "Last:      %s\n", formatDate(*settings.LastBackup))
	}
	if settings.NextBackup != nil {
		fmt.Fprintf(out, "Next:      %s\n", formatDate(*settings.NextBackup))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	settings, err := gymStore.GetBackupSettings(cmd.Context())
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("frequency") {
		settings.Frequency = settingsFrequency
	}
	if cmd.Flags().Changed("enabled") {
		settings.IsEnabled = settingsEnabled
	}

	if err := gymStore.UpdateBackupSettings(cmd.Context(), settings); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Settings updated (frequency: %s, enabled: %t)\n",
		settings.Frequency, settings.IsEnabled)
	return nil
}
