package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// SeedDefaults inserts the singleton backup-settings row and the default
// credential row, each only if its table is empty. The emptiness check is a
// count query rather than an upsert so repeated initialization never
// duplicates the seed rows.
func (b *Backend) SeedDefaults(ctx context.Context) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM backup_settings").Scan(&count); err != nil {
		return fmt.Errorf("count backup settings: %w", err)
	}
	if count == 0 {
		defaults := types.DefaultBackupSettings()
		_, err := tx.ExecContext(ctx,
			"INSERT INTO backup_settings (frequency, is_enabled) VALUES (?, ?)",
			defaults.Frequency, boolToInt(defaults.IsEnabled),
		)
		if err != nil {
			return fmt.Errorf("seed backup settings: %w", err)
		}
	}

	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		now := fmtTime(time.Now())
		_, err := tx.ExecContext(ctx,
			"INSERT INTO users (mobile_number, pin, created_at, updated_at) VALUES (?, ?, ?, ?)",
			b.config.SeedMobile(), b.config.SeedPIN(), now, now,
		)
		if err != nil {
			return fmt.Errorf("seed default user: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	return nil
}
