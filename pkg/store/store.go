// Package store provides the public factory for the Gymkeeper storage
// facade. It wires the durable SQLite backend, the ephemeral in-memory
// fallback, and the selector together while keeping implementation details
// internal.
package store

import (
	"log/slog"

	"github.com/mesh-intelligence/gymkeeper/internal/memstore"
	"github.com/mesh-intelligence/gymkeeper/internal/selector"
	"github.com/mesh-intelligence/gymkeeper/internal/sqlite"
	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// New creates a managed store for the given config. The store is not
// initialized; call Initialize, or let the first operation trigger it lazily.
//
// Example:
//
//	st, err := store.New(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".gymkeeper-db",
//	})
//	if err != nil { ... }
//	defer st.Close()
func New(config types.Config) (types.ManagedStore, error) {
	return NewWithLogger(config, slog.Default())
}

// NewWithLogger is New with an explicit logger for the initialization
// protocol.
func NewWithLogger(config types.Config, logger *slog.Logger) (types.ManagedStore, error) {
	s, err := selector.New(
		config,
		sqlite.NewBackend(config),
		memstore.New(config),
		selector.Options{Logger: logger},
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
