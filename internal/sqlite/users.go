package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// AddUser inserts a credential record. The mobile number is unique.
func (b *Backend) AddUser(ctx context.Context, mobileNumber, pin string) error {
	if mobileNumber == "" || pin == "" {
		return types.ErrInvalidData
	}

	now := fmtTime(time.Now())
	_, err := b.db.ExecContext(ctx,
		"INSERT INTO users (mobile_number, pin, created_at, updated_at) VALUES (?, ?, ?, ?)",
		mobileNumber, pin, now, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return types.ErrDuplicateUser
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// AuthenticateUser reports whether a credential row with the given mobile
// number and PIN exists. Comparison is plaintext equality.
func (b *Backend) AuthenticateUser(ctx context.Context, mobileNumber, pin string) (bool, error) {
	var count int
	err := b.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE mobile_number = ? AND pin = ?",
		mobileNumber, pin,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("authenticate user: %w", err)
	}
	return count > 0, nil
}
