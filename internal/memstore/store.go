// Package memstore implements the ephemeral in-memory backend for the
// Gymkeeper storage system. It offers the same operation contract as the
// durable SQLite backend, backed by process-local maps; state is lost on
// process restart, which is accepted behavior for runtimes without an
// embedded relational engine.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// Ensure Store implements the store contract.
var _ types.Store = (*Store)(nil)

// Store is a map-backed types.Store. All maps are keyed by entity ID and
// seeded empty. Entities are copied on the way in and out so callers never
// alias internal state.
type Store struct {
	mu        sync.RWMutex
	members   map[string]types.Member
	reminders map[string]types.Reminder
	payments  map[string]types.PaymentTransaction
	settings  types.BackupSettings
	users     map[string]string // mobile number -> PIN
}

// New creates an empty in-memory store with default backup settings and the
// default credential row from config already seeded, mirroring what the
// durable backend seeds during initialization.
func New(config types.Config) *Store {
	return &Store{
		members:   make(map[string]types.Member),
		reminders: make(map[string]types.Reminder),
		payments:  make(map[string]types.PaymentTransaction),
		settings:  types.DefaultBackupSettings(),
		users:     map[string]string{config.SeedMobile(): config.SeedPIN()},
	}
}

// AddMember persists a new member, assigning the ID and both timestamps.
func (s *Store) AddMember(ctx context.Context, m *types.Member) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = generateUUID()
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	s.members[m.ID] = *m
	return m.ID, nil
}

// GetMember retrieves a member by ID.
func (s *Store) GetMember(ctx context.Context, id string) (*types.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &m, nil
}

// GetAllMembers returns every member, newest first.
func (s *Store) GetAllMembers(ctx context.Context) ([]types.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]types.Member, 0, len(s.members))
	for _, m := range s.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].CreatedAt.After(members[j].CreatedAt)
	})
	return members, nil
}

// UpdateMember applies the supplied field set to a member, reproducing the
// durable adapter's exclusion rule: identity, creation timestamp, and any
// other field outside the updatable set are silently dropped, the update
// timestamp is always re-stamped. Returns (false, nil) when nothing updatable
// was supplied or the ID matched no member.
func (s *Store) UpdateMember(ctx context.Context, id string, updates map[string]any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok {
		return false, nil
	}

	applied := false
	for field, value := range updates {
		changed, err := applyMemberField(&m, field, value)
		if err != nil {
			return false, err
		}
		applied = applied || changed
	}
	if !applied {
		return false, nil
	}

	m.UpdatedAt = time.Now()
	s.members[id] = m
	return true, nil
}

// DeleteMember removes the member together with that member's reminders and
// payment transactions.
func (s *Store) DeleteMember(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return types.ErrNotFound
	}

	delete(s.members, id)
	for rid, r := range s.reminders {
		if r.MemberID == id {
			delete(s.reminders, rid)
		}
	}
	for pid, p := range s.payments {
		if p.MemberID == id {
			delete(s.payments, pid)
		}
	}
	return nil
}

// AddReminder persists a new reminder, assigning the ID and creation timestamp.
func (s *Store) AddReminder(ctx context.Context, r *types.Reminder) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = generateUUID()
	r.CreatedAt = time.Now()
	s.reminders[r.ID] = *r
	return r.ID, nil
}

// GetAllReminders returns every reminder ordered by scheduled date.
func (s *Store) GetAllReminders(ctx context.Context) ([]types.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reminders := make([]types.Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		reminders = append(reminders, r)
	}
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].ScheduledDate.Before(reminders[j].ScheduledDate)
	})
	return reminders, nil
}

// AddPayment persists a new payment transaction, assigning the ID and
// creation timestamp.
func (s *Store) AddPayment(ctx context.Context, p *types.PaymentTransaction) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = generateUUID()
	p.CreatedAt = time.Now()
	s.payments[p.ID] = *p
	return p.ID, nil
}

// GetPayments returns payment transactions newest first. An empty memberID
// returns all transactions.
func (s *Store) GetPayments(ctx context.Context, memberID string) ([]types.PaymentTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payments := make([]types.PaymentTransaction, 0, len(s.payments))
	for _, p := range s.payments {
		if memberID != "" && p.MemberID != memberID {
			continue
		}
		payments = append(payments, p)
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].PaymentDate.After(payments[j].PaymentDate)
	})
	return payments, nil
}

// GetBackupSettings returns the singleton backup settings.
func (s *Store) GetBackupSettings(ctx context.Context) (*types.BackupSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := s.settings
	return &settings, nil
}

// UpdateBackupSettings replaces the singleton backup settings.
func (s *Store) UpdateBackupSettings(ctx context.Context, settings *types.BackupSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = *settings
	return nil
}

// AddUser inserts a credential record. The mobile number is unique.
func (s *Store) AddUser(ctx context.Context, mobileNumber, pin string) error {
	if mobileNumber == "" || pin == "" {
		return types.ErrInvalidData
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[mobileNumber]; ok {
		return types.ErrDuplicateUser
	}
	s.users[mobileNumber] = pin
	return nil
}

// AuthenticateUser reports whether a credential record with the given mobile
// number and PIN exists.
func (s *Store) AuthenticateUser(ctx context.Context, mobileNumber, pin string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.users[mobileNumber]
	return ok && stored == pin, nil
}

// ClearAllData resets payments, reminders, and members. The swap is atomic
// under the write lock, so partial clearing is never observable.
func (s *Store) ClearAllData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payments = make(map[string]types.PaymentTransaction)
	s.reminders = make(map[string]types.Reminder)
	s.members = make(map[string]types.Member)
	return nil
}

// Close releases nothing; the store lives and dies with the process.
func (s *Store) Close() error {
	return nil
}

// applyMemberField applies one update field, silently skipping fields outside
// the updatable set the same way the durable adapter's column map does. A
// known field with a value of the wrong type is an error.
func applyMemberField(m *types.Member, field string, value any) (bool, error) {
	switch field {
	case types.FieldName:
		return setString(&m.Name, field, value)
	case types.FieldPhone:
		return setString(&m.Phone, field, value)
	case types.FieldEmail:
		return setString(&m.Email, field, value)
	case types.FieldAddress:
		return setString(&m.Address, field, value)
	case types.FieldAvatarURL:
		return setString(&m.AvatarURL, field, value)
	case types.FieldMembershipType:
		return setString(&m.MembershipType, field, value)
	case types.FieldNotes:
		return setString(&m.Notes, field, value)
	case types.FieldStartDate:
		return setTime(&m.StartDate, field, value)
	case types.FieldEndDate:
		return setTime(&m.EndDate, field, value)
	case types.FieldIsActive:
		v, ok := value.(bool)
		if !ok {
			return false, fieldTypeError(field, value)
		}
		m.IsActive = v
		return true, nil
	case types.FieldLastPaymentDate:
		return setTimePtr(&m.LastPaymentDate, field, value)
	case types.FieldNextPaymentDate:
		return setTimePtr(&m.NextPaymentDate, field, value)
	default:
		return false, nil
	}
}

func setString(dst *string, field string, value any) (bool, error) {
	v, ok := value.(string)
	if !ok {
		return false, fieldTypeError(field, value)
	}
	*dst = v
	return true, nil
}

func setTime(dst *time.Time, field string, value any) (bool, error) {
	v, ok := value.(time.Time)
	if !ok {
		return false, fieldTypeError(field, value)
	}
	*dst = v
	return true, nil
}

func setTimePtr(dst **time.Time, field string, value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		*dst = nil
		return true, nil
	case time.Time:
		t := v
		*dst = &t
		return true, nil
	case *time.Time:
		*dst = v
		return true, nil
	default:
		return false, fieldTypeError(field, value)
	}
}

func fieldTypeError(field string, value any) error {
	return &memberFieldError{field: field, value: value}
}

// memberFieldError wraps types.ErrInvalidData with the offending field.
type memberFieldError struct {
	field string
	value any
}

func (e *memberFieldError) Error() string {
	return "member field " + e.field + ": invalid entity data"
}

func (e *memberFieldError) Unwrap() error { return types.ErrInvalidData }

// generateUUID generates a new UUID v7 for entity IDs, falling back to v4 if
// v7 generation fails.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
