// Config loading for the gymkeeper CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeySeedMobile = "default_user_mobile"
	cfgKeySeedPIN    = "default_user_pin"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Gymkeeper CLI configuration

# Storage backend: sqlite or memory
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Credential row seeded when the users table is empty
# default_user_mobile:
# default_user_pin:
`

// loadConfig resolves directories, reads config.yaml through Viper, and
// returns the store config. Flags beat config.yaml which beats defaults; a
// missing config.yaml is not an error.
func loadConfig() (types.Config, error) {
	configDir, dataDir, err := resolveDirs()
	if err != nil {
		return types.Config{}, err
	}

	v, err := readConfigFile(configDir)
	if err != nil {
		return types.Config{}, err
	}

	backend := flagBackend
	if backend == "" {
		backend = v.GetString(cfgKeyBackend)
	}

	return types.Config{
		Backend:           backend,
		DataDir:           dataDir,
		DefaultUserMobile: v.GetString(cfgKeySeedMobile),
		DefaultUserPIN:    v.GetString(cfgKeySeedPIN),
	}, nil
}

// readConfigFile reads config.yaml from the config directory, creating the
// directory and a default file on first run.
func readConfigFile(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Missing config.yaml is not an error.
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// configuredDataDir reads data_dir from an existing config.yaml. Returns an
// empty string when the file is absent or unreadable.
func configuredDataDir(configDir string) string {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	return v.GetString(cfgKeyDataDir)
}
