package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// GetBackupSettings returns the singleton backup settings row. A missing row
// yields the defaults rather than an error.
func (b *Backend) GetBackupSettings(ctx context.Context) (*types.BackupSettings, error) {
	row := b.db.QueryRowContext(ctx,
		"SELECT frequency, is_enabled, last_backup, next_backup FROM backup_settings LIMIT 1")

	var s types.BackupSettings
	var isEnabled int
	var lastBackup, nextBackup sql.NullString

	err := row.Scan(&s.Frequency, &isEnabled, &lastBackup, &nextBackup)
	if err == sql.ErrNoRows {
		defaults := types.DefaultBackupSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get backup settings: %w", err)
	}

	s.IsEnabled = isEnabled == 1
	if s.LastBackup, err = parseTimePtr(lastBackup); err != nil {
		return nil, err
	}
	if s.NextBackup, err = parseTimePtr(nextBackup); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateBackupSettings replaces the singleton backup settings row.
func (b *Backend) UpdateBackupSettings(ctx context.Context, s *types.BackupSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	_, err := b.db.ExecContext(ctx, `
		UPDATE backup_settings SET frequency = ?, is_enabled = ?, last_backup = ?, next_backup = ?`,
		s.Frequency, boolToInt(s.IsEnabled), fmtTimePtr(s.LastBackup), fmtTimePtr(s.NextBackup),
	)
	if err != nil {
		return fmt.Errorf("update backup settings: %w", err)
	}
	return nil
}
