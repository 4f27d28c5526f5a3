// Package backup serializes the full data set to a single JSON document and
// validates documents coming back in. Restore stops after validation: parsed
// entities are returned to the caller but nothing is written to the store.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// Snapshot is the backup interchange document. Field names are the wire
// contract; they match the entity JSON tags.
type Snapshot struct {
	Timestamp      time.Time                  `json:"timestamp"`
	Members        []types.Member             `json:"members"`
	Reminders      []types.Reminder           `json:"reminders"`
	Payments       []types.PaymentTransaction `json:"payments"`
	BackupSettings types.BackupSettings       `json:"backupSettings"`
}

// Codec creates and parses backup snapshots through a store.
type Codec struct {
	store types.Store
}

// NewCodec creates a codec over the given store.
func NewCodec(store types.Store) *Codec {
	return &Codec{store: store}
}

// Create reads members, reminders, payments, and settings and marshals them
// into one indented JSON document stamped with the current time.
func (c *Codec) Create(ctx context.Context) ([]byte, error) {
	members, err := c.store.GetAllMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup members: %w", err)
	}
	reminders, err := c.store.GetAllReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup reminders: %w", err)
	}
	payments, err := c.store.GetPayments(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("backup payments: %w", err)
	}
	settings, err := c.store.GetBackupSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup settings: %w", err)
	}

	snapshot := Snapshot{
		Timestamp:      time.Now(),
		Members:        members,
		Reminders:      reminders,
		Payments:       payments,
		BackupSettings: *settings,
	}

	data, err := json.MarshalIndent(&snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Restore parses and validates a snapshot document. A malformed document or
// an invalid entity yields a *types.RestoreParseError and no other effect.
//
// Parsed data is NOT written back to the store yet; the returned snapshot
// lets callers inspect what a restore would contain.
// TODO: apply the snapshot inside a single transaction once restore
// semantics for conflicting IDs are settled.
func (c *Codec) Restore(data []byte) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, &types.RestoreParseError{Err: err}
	}
	if snapshot.Timestamp.IsZero() {
		return nil, &types.RestoreParseError{Err: fmt.Errorf("missing timestamp")}
	}

	for i := range snapshot.Members {
		if err := snapshot.Members[i].Validate(); err != nil {
			return nil, &types.RestoreParseError{Err: fmt.Errorf("member %d: %w", i, err)}
		}
	}
	for i := range snapshot.Reminders {
		if err := snapshot.Reminders[i].Validate(); err != nil {
			return nil, &types.RestoreParseError{Err: fmt.Errorf("reminder %d: %w", i, err)}
		}
	}
	for i := range snapshot.Payments {
		if err := snapshot.Payments[i].Validate(); err != nil {
			return nil, &types.RestoreParseError{Err: fmt.Errorf("payment %d: %w", i, err)}
		}
	}
	if err := snapshot.BackupSettings.Validate(); err != nil {
		return nil, &types.RestoreParseError{Err: fmt.Errorf("backup settings: %w", err)}
	}

	return &snapshot, nil
}
