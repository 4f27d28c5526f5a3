package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gymkeeper/internal/memstore"
	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// failingScheduler always refuses to schedule, to prove scheduling failures
// never surface through the engine.
type failingScheduler struct{ calls int }

func (s *failingScheduler) Schedule(ctx context.Context, r *types.Reminder) error {
	s.calls++
	return errors.New("no notification service")
}

func newTestEngine(t *testing.T) (*Engine, *memstore.Store) {
	t.Helper()
	store := memstore.New(types.Config{Backend: types.BackendMemory})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(store, nil, logger), store
}

func newMember(start time.Time, membershipType string) *types.Member {
	return &types.Member{
		Name:           "Asha Rao",
		Phone:          "9876543210",
		MembershipType: membershipType,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, types.TenorDays[membershipType]),
		IsActive:       true,
	}
}

func TestAddMemberCreatesTwoReminders(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := newMember(start, types.MembershipMonthly)
	id, err := engine.AddMember(ctx, m)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	reminders, err := store.GetAllReminders(ctx)
	require.NoError(t, err)
	require.Len(t, reminders, 2)

	end := m.EndDate
	payment, renewal := reminders[0], reminders[1]
	assert.Equal(t, types.ReminderPayment, payment.Type)
	assert.Equal(t, id, payment.MemberID)
	assert.Equal(t, end.AddDate(0, 0, -3), payment.ScheduledDate)
	assert.Contains(t, payment.Message, "Asha Rao")

	assert.Equal(t, types.ReminderRenewal, renewal.Type)
	assert.Equal(t, id, renewal.MemberID)
	assert.Equal(t, end, renewal.ScheduledDate)
}

func TestAddMemberSurvivesSchedulerFailure(t *testing.T) {
	store := memstore.New(types.Config{Backend: types.BackendMemory})
	scheduler := &failingScheduler{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := NewEngine(store, scheduler, logger)
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := engine.AddMember(ctx, newMember(start, types.MembershipMonthly))
	require.NoError(t, err)
	assert.Equal(t, 2, scheduler.calls)

	reminders, err := store.GetAllReminders(ctx)
	require.NoError(t, err)
	assert.Len(t, reminders, 2, "reminders persist even when scheduling fails")
}

func TestAddMemberInvalidDataCreatesNothing(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.AddMember(ctx, &types.Member{Name: "No Phone"})
	require.ErrorIs(t, err, types.ErrInvalidPhone)

	reminders, err := store.GetAllReminders(ctx)
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestRecordPaymentExtendsMembership(t *testing.T) {
	tests := []struct {
		membershipType string
		tenorDays      int
	}{
		{types.MembershipMonthly, 30},
		{types.MembershipQuarterly, 90},
		{types.MembershipYearly, 365},
	}

	for _, tt := range tests {
		t.Run(tt.membershipType, func(t *testing.T) {
			engine, store := newTestEngine(t)
			ctx := context.Background()

			start := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
			m := newMember(start, tt.membershipType)
			m.IsActive = false
			id, err := engine.AddMember(ctx, m)
			require.NoError(t, err)

			paid := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			txID, err := engine.RecordPayment(ctx, id, 0, paid, types.PaymentCash, "")
			require.NoError(t, err)
			require.NotEmpty(t, txID)

			got, err := store.GetMember(ctx, id)
			require.NoError(t, err)
			wantEnd := paid.AddDate(0, 0, tt.tenorDays)
			assert.Equal(t, wantEnd, got.EndDate)
			require.NotNil(t, got.NextPaymentDate)
			assert.Equal(t, wantEnd, *got.NextPaymentDate)
			require.NotNil(t, got.LastPaymentDate)
			assert.Equal(t, paid, *got.LastPaymentDate)
			assert.True(t, got.IsActive, "payment reactivates the member")

			payments, err := store.GetPayments(ctx, id)
			require.NoError(t, err)
			require.Len(t, payments, 1)
			assert.Equal(t, types.DefaultPlanAmounts[tt.membershipType], payments[0].Amount)
			assert.Equal(t, tt.membershipType+" membership payment", payments[0].Description)
		})
	}
}

func TestRecordPaymentMonthlyTenorExample(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	id, err := engine.AddMember(ctx, newMember(start, types.MembershipMonthly))
	require.NoError(t, err)

	_, err = engine.RecordPayment(ctx, id, 1000, start, types.PaymentUPI, "january dues")
	require.NoError(t, err)

	got, err := store.GetMember(ctx, id)
	require.NoError(t, err)
	// 30 additive days, not one calendar month.
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), got.EndDate)

	reminders, err := store.GetAllReminders(ctx)
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.Equal(t, types.ReminderPayment, reminders[0].Type)
	assert.Equal(t, time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC), reminders[0].ScheduledDate)
	assert.Equal(t, types.ReminderRenewal, reminders[1].Type)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), reminders[1].ScheduledDate)
}

func TestRecordPaymentCreatesNoReminders(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	start := time.Date(2023, 12, 2, 0, 0, 0, 0, time.UTC)
	id, err := engine.AddMember(ctx, newMember(start, types.MembershipMonthly))
	require.NoError(t, err)

	before, err := store.GetAllReminders(ctx)
	require.NoError(t, err)
	require.Len(t, before, 2)

	paid := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err = engine.RecordPayment(ctx, id, 1000, paid, types.PaymentCash, "")
	require.NoError(t, err)

	after, err := store.GetAllReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "recording a payment leaves reminders untouched")
}

func TestRecordPaymentUnknownMember(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.RecordPayment(context.Background(), "missing", 500,
		time.Now(), types.PaymentCash, "")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestRecordPaymentRejectsInvalidMode(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	id, err := engine.AddMember(ctx, newMember(start, types.MembershipMonthly))
	require.NoError(t, err)

	_, err = engine.RecordPayment(ctx, id, 500, time.Now(), "barter", "")
	require.ErrorIs(t, err, types.ErrInvalidPaymentMode)

	payments, err := store.GetPayments(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, payments)
}
