package types

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Store provides uniform CRUD operations over gym data. Both the durable
// SQLite adapter and the ephemeral in-memory adapter implement this contract
// with indistinguishable observable behavior: the same cascade-on-delete and
// the same field-exclusion rule on update.
type Store interface {
	// AddMember persists a new member. ID and create/update timestamps are
	// assigned by the store. Returns the assigned ID.
	AddMember(ctx context.Context, m *Member) (string, error)

	// GetMember retrieves a member by ID. Returns ErrNotFound if absent.
	GetMember(ctx context.Context, id string) (*Member, error)

	// GetAllMembers returns every member, newest first.
	GetAllMembers(ctx context.Context) ([]Member, error)

	// UpdateMember applies the supplied field set to a member. Identity and
	// creation timestamp are never updatable; the update timestamp is always
	// re-stamped. Returns (false, nil) when no updatable field was supplied
	// or no member matched the ID.
	UpdateMember(ctx context.Context, id string, updates map[string]any) (bool, error)

	// DeleteMember removes a member together with that member's reminders
	// and payment transactions. The cascade is explicit, part of the same
	// logical operation. Returns ErrNotFound if absent.
	DeleteMember(ctx context.Context, id string) error

	// AddReminder persists a new reminder and returns the assigned ID.
	AddReminder(ctx context.Context, r *Reminder) (string, error)

	// GetAllReminders returns every reminder ordered by scheduled date.
	GetAllReminders(ctx context.Context) ([]Reminder, error)

	// AddPayment persists a new payment transaction and returns the
	// assigned ID.
	AddPayment(ctx context.Context, p *PaymentTransaction) (string, error)

	// GetPayments returns payment transactions newest first. An empty
	// memberID returns all transactions.
	GetPayments(ctx context.Context, memberID string) ([]PaymentTransaction, error)

	// GetBackupSettings returns the singleton backup settings row.
	GetBackupSettings(ctx context.Context) (*BackupSettings, error)

	// UpdateBackupSettings replaces the singleton backup settings row.
	UpdateBackupSettings(ctx context.Context, s *BackupSettings) error

	// AddUser inserts a credential record.
	AddUser(ctx context.Context, mobileNumber, pin string) error

	// AuthenticateUser reports whether a credential record with the given
	// mobile number and PIN exists.
	AuthenticateUser(ctx context.Context, mobileNumber, pin string) (bool, error)

	// ClearAllData removes all payment transactions, reminders, and members
	// in a single transaction. Partial clearing is never observable: on any
	// failure the data set is unchanged and the error wraps
	// ErrTransactionAborted.
	ClearAllData(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// ManagedStore is a Store whose backend requires a ready state before use.
// Operations invoked before Initialize trigger it lazily.
type ManagedStore interface {
	Store

	// Initialize brings the backend to a ready state. Idempotent; concurrent
	// callers observe a single in-flight initialization. Fails with an
	// InitTimeoutError once the overall deadline elapses.
	Initialize(ctx context.Context) error

	// Backend returns the name of the backend serving requests.
	Backend() string
}

// Store operation errors.
var (
	ErrNotFound              = errors.New("entity not found")
	ErrInvalidData           = errors.New("invalid entity data")
	ErrInvalidName           = errors.New("invalid name")
	ErrInvalidPhone          = errors.New("invalid phone")
	ErrInvalidMembershipType = errors.New("invalid membership type")
	ErrInvalidReminderType   = errors.New("invalid reminder type")
	ErrInvalidPaymentMode    = errors.New("invalid payment mode")
	ErrInvalidFrequency      = errors.New("invalid backup frequency")
	ErrInvalidAmount         = errors.New("invalid payment amount")
	ErrInvalidDateRange      = errors.New("end date precedes start date")
	ErrDuplicateUser         = errors.New("mobile number already registered")
)

// Facade and transaction errors.
var (
	// ErrBackendUnavailable indicates the durable backend was requested on a
	// runtime that structurally cannot provide it. Immediate, not retried.
	ErrBackendUnavailable = errors.New("durable backend unavailable on this runtime")

	// ErrTransactionAborted indicates a multi-statement transaction failed
	// and was rolled back; callers must treat the data set as unchanged.
	ErrTransactionAborted = errors.New("transaction aborted")
)

// InitTimeoutError reports that an initialization deadline elapsed. Stage
// names the initialization stage that was in progress.
type InitTimeoutError struct {
	Stage   string
	Timeout time.Duration
}

func (e *InitTimeoutError) Error() string {
	return fmt.Sprintf("initialization timed out after %s in stage %q", e.Timeout, e.Stage)
}

// RestoreParseError reports a malformed backup snapshot document. No partial
// restore is attempted when it is returned.
type RestoreParseError struct {
	Err error
}

func (e *RestoreParseError) Error() string {
	return fmt.Sprintf("parse backup snapshot: %s", e.Err)
}

func (e *RestoreParseError) Unwrap() error { return e.Err }
