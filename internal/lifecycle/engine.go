// Package lifecycle implements the membership lifecycle rules on top of the
// storage facade: automatic reminders when a member joins, payment recording
// with expiry extension, and status classification.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/gymkeeper/internal/notify"
	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// PaymentReminderLeadDays is how many days before expiry the automatic
// payment reminder is scheduled.
const PaymentReminderLeadDays = 3

// Titles of the automatically created reminders.
const (
	paymentReminderTitle = "Payment Reminder"
	renewalReminderTitle = "Membership Renewal"
)

// Engine applies lifecycle rules around store operations. It never talks to a
// backend directly; everything goes through the Store contract.
type Engine struct {
	store     types.Store
	scheduler notify.Scheduler
	logger    *slog.Logger
}

// NewEngine creates a lifecycle engine. A nil scheduler falls back to the
// logging scheduler and a nil logger to the default logger.
func NewEngine(store types.Store, scheduler notify.Scheduler, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if scheduler == nil {
		scheduler = notify.NewLogScheduler(logger)
	}
	return &Engine{store: store, scheduler: scheduler, logger: logger}
}

// AddMember persists the member and creates the two automatic reminders: a
// payment reminder three days before expiry and a renewal reminder on the
// expiry date. Reminder or notification failures are logged and never fail
// the member creation.
func (e *Engine) AddMember(ctx context.Context, m *types.Member) (string, error) {
	id, err := e.store.AddMember(ctx, m)
	if err != nil {
		return "", err
	}
	e.scheduleMembershipReminders(ctx, m)
	return id, nil
}

// CreateReminder persists a reminder and schedules its notification. A
// scheduling failure is logged; the reminder is already persisted and the
// operation succeeds.
func (e *Engine) CreateReminder(ctx context.Context, r *types.Reminder) (string, error) {
	id, err := e.store.AddReminder(ctx, r)
	if err != nil {
		return "", err
	}
	if err := e.scheduler.Schedule(ctx, r); err != nil {
		e.logger.Warn("notification scheduling failed",
			"reminder_id", id, "error", err)
	}
	return id, nil
}

// RecordPayment inserts a payment transaction for the member and extends the
// membership: lastPaymentDate becomes the payment date, endDate and
// nextPaymentDate become the payment date plus the plan tenor, and the member
// is reactivated. A zero amount takes the plan's default amount, a zero date
// the current time, an empty description a generated one. No reminders are
// created here; reminders come from member creation or explicit calls.
//
// The insert and the member update are separate operations. When the update
// fails after a successful insert, the transaction stays recorded and the
// error says so; callers must not assume the data set rolled back.
func (e *Engine) RecordPayment(ctx context.Context, memberID string, amount float64, date time.Time, mode, description string) (string, error) {
	member, err := e.store.GetMember(ctx, memberID)
	if err != nil {
		return "", fmt.Errorf("record payment: %w", err)
	}

	if date.IsZero() {
		date = time.Now()
	}
	if amount == 0 {
		amount = types.DefaultPlanAmounts[member.MembershipType]
	}
	if description == "" {
		description = member.MembershipType + " membership payment"
	}

	p := &types.PaymentTransaction{
		MemberID:    memberID,
		Amount:      amount,
		PaymentDate: date,
		PaymentMode: mode,
		Description: description,
	}
	id, err := e.store.AddPayment(ctx, p)
	if err != nil {
		return "", fmt.Errorf("record payment: %w", err)
	}

	newEnd := date.AddDate(0, 0, types.TenorDays[member.MembershipType])
	updates := map[string]any{
		types.FieldLastPaymentDate: date,
		types.FieldEndDate:         newEnd,
		types.FieldNextPaymentDate: newEnd,
		types.FieldIsActive:        true,
	}
	applied, err := e.store.UpdateMember(ctx, memberID, updates)
	if err != nil {
		return id, fmt.Errorf("payment %s recorded but member update failed: %w", id, err)
	}
	if !applied {
		return id, fmt.Errorf("payment %s recorded but member %s was not updated: %w",
			id, memberID, types.ErrNotFound)
	}
	return id, nil
}

// scheduleMembershipReminders creates the payment and renewal reminders for
// the member's current expiry date. Best effort: each failure is logged and
// the rest proceeds.
func (e *Engine) scheduleMembershipReminders(ctx context.Context, m *types.Member) {
	dueDate := m.EndDate.Format("02 Jan 2006")
	reminders := []*types.Reminder{
		{
			MemberID:      m.ID,
			Type:          types.ReminderPayment,
			Title:         paymentReminderTitle,
			Message:       fmt.Sprintf("%s's membership payment is due on %s", m.Name, dueDate),
			ScheduledDate: m.EndDate.AddDate(0, 0, -PaymentReminderLeadDays),
		},
		{
			MemberID:      m.ID,
			Type:          types.ReminderRenewal,
			Title:         renewalReminderTitle,
			Message:       fmt.Sprintf("%s's membership expires on %s", m.Name, dueDate),
			ScheduledDate: m.EndDate,
		},
	}

	for _, r := range reminders {
		if _, err := e.CreateReminder(ctx, r); err != nil {
			e.logger.Warn("automatic reminder not created",
				"member_id", m.ID, "type", r.Type, "error", err)
		}
	}
}
