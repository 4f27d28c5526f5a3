package types

import "errors"

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Default credential row seeded when the users table is empty.
const (
	DefaultSeedMobile = "9999999999"
	DefaultSeedPIN    = "1234"
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendMemory: true,
}

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// Config holds backend selection and parameters for constructing a store.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Credential row inserted when the users table is seeded.
	// Empty values fall back to DefaultSeedMobile/DefaultSeedPIN.
	DefaultUserMobile string `json:"default_user_mobile" yaml:"default_user_mobile"`
	DefaultUserPIN    string `json:"default_user_pin" yaml:"default_user_pin"`
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// SeedMobile returns the configured default credential mobile number.
func (c Config) SeedMobile() string {
	if c.DefaultUserMobile != "" {
		return c.DefaultUserMobile
	}
	return DefaultSeedMobile
}

// SeedPIN returns the configured default credential PIN.
func (c Config) SeedPIN() string {
	if c.DefaultUserPIN != "" {
		return c.DefaultUserPIN
	}
	return DefaultSeedPIN
}
