package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// AddReminder persists a new reminder, assigning the ID and creation timestamp.
func (b *Backend) AddReminder(ctx context.Context, r *types.Reminder) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	id := generateUUID()
	now := time.Now()

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO reminders (id, member_id, type, title, message, scheduled_date, is_sent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.MemberID, r.Type, r.Title, r.Message,
		fmtTime(r.ScheduledDate), boolToInt(r.IsSent), fmtTime(now),
	)
	if err != nil {
		return "", fmt.Errorf("insert reminder: %w", err)
	}

	r.ID = id
	r.CreatedAt = now
	return id, nil
}

// GetAllReminders returns every reminder ordered by scheduled date.
func (b *Backend) GetAllReminders(ctx context.Context) ([]types.Reminder, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, member_id, type, title, message, scheduled_date, is_sent, created_at
		FROM reminders ORDER BY scheduled_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []types.Reminder
	for rows.Next() {
		var r types.Reminder
		var scheduled, created string
		var isSent int
		if err := rows.Scan(&r.ID, &r.MemberID, &r.Type, &r.Title, &r.Message,
			&scheduled, &isSent, &created); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		r.IsSent = isSent == 1
		if r.ScheduledDate, err = parseTime(scheduled); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}
	return reminders, nil
}
