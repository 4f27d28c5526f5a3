package types

import "time"

// Reminder categories.
const (
	ReminderPayment = "payment"
	ReminderRenewal = "renewal"
	ReminderCustom  = "custom"
)

// GeneralReminderMember is the sentinel member ID for reminders that do not
// belong to a specific member.
const GeneralReminderMember = "general"

// validReminderTypes is the set of recognized reminder categories.
var validReminderTypes = map[string]bool{
	ReminderPayment: true,
	ReminderRenewal: true,
	ReminderCustom:  true,
}

// Reminder represents a scheduled reminder, created automatically when a
// member is added or manually by a caller. Reminders are only removed by the
// cascade when their member is deleted.
type Reminder struct {
	ID            string    `json:"id"`
	MemberID      string    `json:"memberId"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	ScheduledDate time.Time `json:"scheduledDate"`
	IsSent        bool      `json:"isSent"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Validate checks that the reminder is well-formed for persistence.
func (r *Reminder) Validate() error {
	if r.MemberID == "" {
		return ErrInvalidData
	}
	if !validReminderTypes[r.Type] {
		return ErrInvalidReminderType
	}
	if r.Title == "" {
		return ErrInvalidName
	}
	if r.ScheduledDate.IsZero() {
		return ErrInvalidDateRange
	}
	return nil
}
