// Package notify schedules local reminder notifications. Scheduling is
// best-effort by contract: a failed schedule never fails the operation that
// created the reminder.
package notify

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// Scheduler registers a reminder with whatever notification facility the
// host provides.
type Scheduler interface {
	// Schedule registers a notification for the reminder's scheduled date.
	Schedule(ctx context.Context, r *types.Reminder) error
}

// LogScheduler is the default scheduler. It records the intent in the log
// instead of talking to a platform notification service.
type LogScheduler struct {
	Logger *slog.Logger
}

// NewLogScheduler creates a scheduler that writes to the given logger, or the
// default logger when nil.
func NewLogScheduler(logger *slog.Logger) *LogScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogScheduler{Logger: logger}
}

// Schedule logs the notification intent. It never fails.
func (s *LogScheduler) Schedule(ctx context.Context, r *types.Reminder) error {
	s.Logger.Info("notification scheduled",
		"reminder_id", r.ID,
		"member_id", r.MemberID,
		"type", r.Type,
		"title", r.Title,
		"scheduled_date", r.ScheduledDate,
	)
	return nil
}
