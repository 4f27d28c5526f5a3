// Root command, global flags, and store lifecycle for the gymkeeper CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gymkeeper/internal/lifecycle"
	"github.com/mesh-intelligence/gymkeeper/internal/paths"
	"github.com/mesh-intelligence/gymkeeper/pkg/store"
	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// Global flag values accessible to all subcommands.
var (
	flagConfigDir string
	flagDataDir   string
	flagBackend   string
	jsonOutput    bool
)

// gymStore is the managed store opened by PersistentPreRunE, and engine the
// lifecycle layer over it.
var (
	gymStore types.ManagedStore
	engine   *lifecycle.Engine
)

var rootCmd = &cobra.Command{
	Use:   "gymkeeper",
	Short: "Gymkeeper manages gym memberships, payments, and reminders",
	Long: `Gymkeeper tracks gym members, their payments, and scheduled reminders.

Data lives in a SQLite database inside the data directory. On runtimes
where the durable backend is unavailable the tool falls back to an
in-memory store for the life of the process.`,
	SilenceUsage:       true,
	PersistentPreRunE:  openStore,
	PersistentPostRunE: closeStore,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: .gymkeeper-db)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite or memory (default: sqlite)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(paymentCmd)
	rootCmd.AddCommand(reminderCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(loginCmd)
}

// skipStore lists commands that run without a store.
func skipStore(cmd *cobra.Command) bool {
	return cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion"
}

// openStore loads config, constructs the managed store, and builds the
// lifecycle engine. Initialization itself is lazy; the first operation
// triggers it.
func openStore(cmd *cobra.Command, args []string) error {
	if skipStore(cmd) {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gymStore, err = store.New(cfg)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	engine = lifecycle.NewEngine(gymStore, nil, nil)
	return nil
}

// closeStore releases the store opened by openStore.
func closeStore(cmd *cobra.Command, args []string) error {
	if gymStore == nil {
		return nil
	}
	err := gymStore.Close()
	gymStore = nil
	engine = nil
	return err
}

// resolveDirs returns the config and data directories honoring flags, env
// vars, config.yaml, and platform defaults.
func resolveDirs() (configDir, dataDir string, err error) {
	configDir, err = paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return "", "", fmt.Errorf("resolve config dir: %w", err)
	}
	dataDir, err = paths.ResolveDataDir(flagDataDir, configuredDataDir(configDir))
	if err != nil {
		return "", "", fmt.Errorf("resolve data dir: %w", err)
	}
	return configDir, dataDir, nil
}
