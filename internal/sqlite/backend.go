package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// DatabaseFileName is the SQLite file created inside the data directory.
const DatabaseFileName = "gymkeeper.db"

// Ensure Backend implements the store contract.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store against a SQLite database. The backend is
// created cold; the selector drives it through Open, CreateSchema, and
// SeedDefaults before routing operations to it.
type Backend struct {
	config types.Config
	db     *sql.DB
}

// NewBackend creates an unopened SQLite backend for the given config.
func NewBackend(config types.Config) *Backend {
	return &Backend{config: config}
}

// Open creates the data directory if needed and opens the database handle.
func (b *Backend) Open(ctx context.Context) error {
	dataDir := b.config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DatabaseFileName))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	b.db = db
	return nil
}

// Ping verifies the connection is actually usable. The selector uses it to
// guard against false-negative open failures from the underlying engine.
func (b *Backend) Ping(ctx context.Context) error {
	if b.db == nil {
		return fmt.Errorf("database not open")
	}
	return b.db.PingContext(ctx)
}

// CreateSchema applies all table and index creation statements. Every
// statement is create-if-absent, so re-running is harmless.
func (b *Backend) CreateSchema(ctx context.Context) error {
	for _, ddl := range schemaDDL {
		if _, err := b.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := b.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Close closes the database connection. Safe to call on an unopened backend.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// ClearAllData deletes all payment transactions, reminders, and members in a
// single transaction. On any failure the transaction is rolled back and the
// returned error wraps types.ErrTransactionAborted; partial clearing is never
// observable.
func (b *Backend) ClearAllData(ctx context.Context) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Dependent tables first.
	for _, stmt := range []string{
		"DELETE FROM payment_transactions",
		"DELETE FROM reminders",
		"DELETE FROM members",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %s: %s", types.ErrTransactionAborted, stmt, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %s", types.ErrTransactionAborted, err)
	}
	return nil
}

// generateUUID generates a new UUID v7 for entity IDs, falling back to v4 if
// v7 generation fails.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Timestamps are stored as RFC 3339 text columns.

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
