package backup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gymkeeper/internal/memstore"
	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

func seededStore(t *testing.T) (*memstore.Store, string) {
	t.Helper()
	store := memstore.New(types.Config{Backend: types.BackendMemory})
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	id, err := store.AddMember(ctx, &types.Member{
		Name:           "Asha Rao",
		Phone:          "9876543210",
		MembershipType: types.MembershipMonthly,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 30),
		IsActive:       true,
	})
	require.NoError(t, err)

	_, err = store.AddReminder(ctx, &types.Reminder{
		MemberID:      id,
		Type:          types.ReminderPayment,
		Title:         "Payment Reminder",
		ScheduledDate: start.AddDate(0, 0, 27),
	})
	require.NoError(t, err)

	_, err = store.AddPayment(ctx, &types.PaymentTransaction{
		MemberID:    id,
		Amount:      1000,
		PaymentDate: start,
		PaymentMode: types.PaymentCash,
	})
	require.NoError(t, err)

	return store, id
}

func TestCreateEmitsFullSnapshot(t *testing.T) {
	store, memberID := seededStore(t)
	codec := NewCodec(store)

	data, err := codec.Create(context.Background())
	require.NoError(t, err)

	// The wire names are a contract; check them on the raw document.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"timestamp", "members", "reminders", "payments", "backupSettings"} {
		assert.Contains(t, raw, key)
	}

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))
	assert.False(t, snapshot.Timestamp.IsZero())
	require.Len(t, snapshot.Members, 1)
	assert.Equal(t, memberID, snapshot.Members[0].ID)
	assert.Len(t, snapshot.Reminders, 1)
	assert.Len(t, snapshot.Payments, 1)
	assert.Equal(t, types.FrequencyWeekly, snapshot.BackupSettings.Frequency)
}

func TestRestoreRoundTrip(t *testing.T) {
	store, memberID := seededStore(t)
	codec := NewCodec(store)

	data, err := codec.Create(context.Background())
	require.NoError(t, err)

	snapshot, err := codec.Restore(data)
	require.NoError(t, err)
	require.Len(t, snapshot.Members, 1)
	assert.Equal(t, memberID, snapshot.Members[0].ID)
	assert.Len(t, snapshot.Reminders, 1)
	assert.Len(t, snapshot.Payments, 1)
}

func TestRestoreDoesNotMutateStore(t *testing.T) {
	store, _ := seededStore(t)
	codec := NewCodec(store)
	ctx := context.Background()

	data, err := codec.Create(ctx)
	require.NoError(t, err)

	empty := memstore.New(types.Config{Backend: types.BackendMemory})
	_, err = NewCodec(empty).Restore(data)
	require.NoError(t, err)

	members, err := empty.GetAllMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, members, "restore must not write to the store")
}

func TestRestoreRejectsMalformedDocuments(t *testing.T) {
	codec := NewCodec(memstore.New(types.Config{Backend: types.BackendMemory}))

	tests := []struct {
		name string
		data string
	}{
		{"not json", "not a snapshot at all"},
		{"wrong shape", `{"timestamp": 42}`},
		{"missing timestamp", `{"members": []}`},
		{"invalid member", `{"timestamp": "2024-01-01T00:00:00Z",
			"members": [{"name": "", "phone": ""}],
			"backupSettings": {"frequency": "weekly"}}`},
		{"invalid frequency", `{"timestamp": "2024-01-01T00:00:00Z",
			"backupSettings": {"frequency": "hourly"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Restore([]byte(tt.data))
			var parseErr *types.RestoreParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}
