// Package selector implements the backend selector and facade for the
// Gymkeeper storage system. It decides once per process whether the durable
// SQLite backend is available on the current runtime, drives the durable
// backend through its initialization protocol, and routes every store
// operation to the active backend.
package selector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// Initialization states. Failed is reachable from any non-terminal state.
const (
	StateUninitialized        = "uninitialized"
	StateWaitingForHostBridge = "waiting_for_host_bridge"
	StateOpeningConnection    = "opening_connection"
	StateCreatingSchema       = "creating_schema"
	StateSeedingDefaults      = "seeding_defaults"
	StateReady                = "ready"
	StateFailed               = "failed"
)

// Default deadlines. The overall initialization deadline is distinct from the
// per-call deadline applied to operations that arrive while initialization is
// still in flight.
const (
	DefaultInitTimeout    = 30 * time.Second
	DefaultReadyTimeout   = 20 * time.Second
	DefaultOpenTimeout    = 10 * time.Second
	DefaultBridgeAttempts = 30
	DefaultBridgeInterval = 100 * time.Millisecond
)

// Durable is the contract the selector drives through the initialization
// state machine. The SQLite backend satisfies it.
type Durable interface {
	types.Store

	// Open creates the connection handle.
	Open(ctx context.Context) error

	// Ping reports whether the connection is actually usable, guarding
	// against false-negative open failures.
	Ping(ctx context.Context) error

	// CreateSchema applies the idempotent table-creation statements.
	CreateSchema(ctx context.Context) error

	// SeedDefaults inserts the count-guarded default rows.
	SeedDefaults(ctx context.Context) error
}

// Options tune the initialization protocol. Zero values take the defaults.
type Options struct {
	InitTimeout    time.Duration
	ReadyTimeout   time.Duration
	OpenTimeout    time.Duration
	BridgeAttempts int
	BridgeInterval time.Duration
	Bridge         Bridge
	Logger         *slog.Logger
}

func (o Options) withDefaults(dataDir string) Options {
	if o.InitTimeout == 0 {
		o.InitTimeout = DefaultInitTimeout
	}
	if o.ReadyTimeout == 0 {
		o.ReadyTimeout = DefaultReadyTimeout
	}
	if o.OpenTimeout == 0 {
		o.OpenTimeout = DefaultOpenTimeout
	}
	if o.BridgeAttempts == 0 {
		o.BridgeAttempts = DefaultBridgeAttempts
	}
	if o.BridgeInterval == 0 {
		o.BridgeInterval = DefaultBridgeInterval
	}
	if o.Bridge == nil {
		o.Bridge = DirBridge{Dir: dataDir}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Ensure Selector implements the managed store contract.
var _ types.ManagedStore = (*Selector)(nil)

// Selector owns the live backend handle. No other component holds a
// reference to storage internals; at most one initialization sequence is in
// flight at any time, and concurrent Initialize callers attach to it.
type Selector struct {
	opts        Options
	durable     Durable
	ephemeral   types.Store
	useDurable  bool
	unavailable error

	mu       sync.Mutex
	state    string
	inflight chan struct{}
	initErr  error
}

// New constructs a selector for the given config. The structural-availability
// check happens here, once and cheaply: when the config asks for the memory
// backend, or the durable backend's data directory cannot be created, every
// call routes to the ephemeral backend and durable initialization is never
// attempted. The degraded reason is available from DurableError.
func New(config types.Config, durable Durable, ephemeral types.Store, opts Options) (*Selector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Selector{
		opts:      opts.withDefaults(config.DataDir),
		durable:   durable,
		ephemeral: ephemeral,
		state:     StateUninitialized,
	}

	switch config.Backend {
	case types.BackendMemory:
		// Ephemeral requested outright; nothing to initialize.
	case types.BackendSQLite:
		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			s.unavailable = fmt.Errorf("%w: %s", types.ErrBackendUnavailable, err)
			s.opts.Logger.Warn("durable backend unavailable, using ephemeral store",
				"data_dir", dataDir, "error", err)
		} else {
			s.useDurable = true
		}
	}

	return s, nil
}

// Backend returns the name of the backend serving requests.
func (s *Selector) Backend() string {
	if s.useDurable {
		return types.BackendSQLite
	}
	return types.BackendMemory
}

// DurableError returns the reason the durable backend was ruled out at
// construction, or nil when it was not.
func (s *Selector) DurableError() error {
	return s.unavailable
}

// State returns the current initialization state.
func (s *Selector) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.useDurable {
		return StateReady
	}
	return s.state
}

// Initialize brings the durable backend to a ready state. It is idempotent;
// a second concurrent caller attaches to the in-flight initialization rather
// than starting another sequence. A failed initialization is not retried
// automatically, but a fresh call afterwards starts over from scratch. On the
// ephemeral backend it is a no-op.
func (s *Selector) Initialize(ctx context.Context) error {
	if !s.useDurable {
		return nil
	}

	s.mu.Lock()
	if s.state == StateReady {
		s.mu.Unlock()
		return nil
	}
	if s.inflight == nil {
		ch := make(chan struct{})
		s.inflight = ch
		s.state = StateWaitingForHostBridge
		go s.run(ch)
	}
	ch := s.inflight
	s.mu.Unlock()

	select {
	case <-ch:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.initErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run executes the initialization state machine under the overall deadline.
// It runs detached from any caller so cancellation of one waiter cannot
// abort the sequence another waiter is attached to.
func (s *Selector) run(done chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.InitTimeout)
	defer cancel()
	defer close(done)

	s.waitForBridge(ctx)

	s.setState(StateOpeningConnection)
	openCtx, openCancel := context.WithTimeout(ctx, s.opts.OpenTimeout)
	err := s.durable.Open(openCtx)
	openCancel()
	if err != nil {
		// The engine sometimes reports a failure for a connection that is
		// in fact open; re-check before propagating.
		if pingErr := s.durable.Ping(ctx); pingErr != nil {
			s.fail(ctx, fmt.Errorf("open connection: %w", err))
			return
		}
		s.opts.Logger.Warn("connection open reported failure but is usable, continuing", "error", err)
	}

	s.setState(StateCreatingSchema)
	if err := s.durable.CreateSchema(ctx); err != nil {
		s.fail(ctx, fmt.Errorf("create schema: %w", err))
		return
	}

	s.setState(StateSeedingDefaults)
	if err := s.durable.SeedDefaults(ctx); err != nil {
		s.fail(ctx, fmt.Errorf("seed defaults: %w", err))
		return
	}

	s.mu.Lock()
	s.state = StateReady
	s.initErr = nil
	s.inflight = nil
	s.mu.Unlock()
	s.opts.Logger.Info("storage initialized", "backend", types.BackendSQLite)
}

// waitForBridge polls the capability bridge for a bounded number of attempts
// at a fixed interval. Exhaustion is not a failure: initialization proceeds
// anyway and later statement failures carry the real signal.
func (s *Selector) waitForBridge(ctx context.Context) {
	for attempt := 0; attempt < s.opts.BridgeAttempts; attempt++ {
		if s.opts.Bridge.Connected(ctx) {
			return
		}
		select {
		case <-time.After(s.opts.BridgeInterval):
		case <-ctx.Done():
			return
		}
	}
	s.opts.Logger.Warn("capability bridge not ready after bounded wait, proceeding",
		"attempts", s.opts.BridgeAttempts)
}

// fail records a terminal initialization failure and releases the in-flight
// slot so a later Initialize can start over.
func (s *Selector) fail(ctx context.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		err = &types.InitTimeoutError{Stage: s.currentState(), Timeout: s.opts.InitTimeout}
	}

	// Release any half-open handle so a retry starts clean.
	_ = s.durable.Close()

	s.mu.Lock()
	s.state = StateFailed
	s.initErr = err
	s.inflight = nil
	s.mu.Unlock()
	s.opts.Logger.Error("storage initialization failed", "error", err)
}

func (s *Selector) setState(state string) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Selector) currentState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ensureReady lazily triggers initialization and applies the secondary
// per-call deadline so a caller arriving after a stalled initialization is
// not blocked indefinitely.
func (s *Selector) ensureReady(ctx context.Context) (types.Store, error) {
	if !s.useDurable {
		return s.ephemeral, nil
	}

	s.mu.Lock()
	ready := s.state == StateReady
	s.mu.Unlock()
	if ready {
		return s.durable, nil
	}

	readyCtx, cancel := context.WithTimeout(ctx, s.opts.ReadyTimeout)
	defer cancel()

	if err := s.Initialize(readyCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &types.InitTimeoutError{Stage: s.currentState(), Timeout: s.opts.ReadyTimeout}
		}
		return nil, err
	}
	return s.durable, nil
}

// Store operations. Each ensures readiness first and wraps failures with the
// operation that failed; nothing is retried automatically because writes are
// not proven idempotent.

func (s *Selector) AddMember(ctx context.Context, m *types.Member) (string, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return "", err
	}
	id, err := st.AddMember(ctx, m)
	if err != nil {
		return "", fmt.Errorf("add member: %w", err)
	}
	return id, nil
}

func (s *Selector) GetMember(ctx context.Context, id string) (*types.Member, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}
	m, err := st.GetMember(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *Selector) GetAllMembers(ctx context.Context) ([]types.Member, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}
	members, err := st.GetAllMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all members: %w", err)
	}
	return members, nil
}

func (s *Selector) UpdateMember(ctx context.Context, id string, updates map[string]any) (bool, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return false, err
	}
	applied, err := st.UpdateMember(ctx, id, updates)
	if err != nil {
		return false, fmt.Errorf("update member: %w", err)
	}
	return applied, nil
}

func (s *Selector) DeleteMember(ctx context.Context, id string) error {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	if err := st.DeleteMember(ctx, id); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func (s *Selector) AddReminder(ctx context.Context, r *types.Reminder) (string, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return "", err
	}
	id, err := st.AddReminder(ctx, r)
	if err != nil {
		return "", fmt.Errorf("add reminder: %w", err)
	}
	return id, nil
}

func (s *Selector) GetAllReminders(ctx context.Context) ([]types.Reminder, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}
	reminders, err := st.GetAllReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all reminders: %w", err)
	}
	return reminders, nil
}

func (s *Selector) AddPayment(ctx context.Context, p *types.PaymentTransaction) (string, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return "", err
	}
	id, err := st.AddPayment(ctx, p)
	if err != nil {
		return "", fmt.Errorf("add payment: %w", err)
	}
	return id, nil
}

func (s *Selector) GetPayments(ctx context.Context, memberID string) ([]types.PaymentTransaction, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := st.GetPayments(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	return payments, nil
}

func (s *Selector) GetBackupSettings(ctx context.Context) (*types.BackupSettings, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := st.GetBackupSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get backup settings: %w", err)
	}
	return settings, nil
}

func (s *Selector) UpdateBackupSettings(ctx context.Context, settings *types.BackupSettings) error {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	if err := st.UpdateBackupSettings(ctx, settings); err != nil {
		return fmt.Errorf("update backup settings: %w", err)
	}
	return nil
}

func (s *Selector) AddUser(ctx context.Context, mobileNumber, pin string) error {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	if err := st.AddUser(ctx, mobileNumber, pin); err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

func (s *Selector) AuthenticateUser(ctx context.Context, mobileNumber, pin string) (bool, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return false, err
	}
	ok, err := st.AuthenticateUser(ctx, mobileNumber, pin)
	if err != nil {
		return false, fmt.Errorf("authenticate user: %w", err)
	}
	return ok, nil
}

func (s *Selector) ClearAllData(ctx context.Context) error {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	if err := st.ClearAllData(ctx); err != nil {
		return fmt.Errorf("clear all data: %w", err)
	}
	return nil
}

// Close releases the active backend. The ephemeral store is always closed;
// the durable backend only if it was selected.
func (s *Selector) Close() error {
	var err error
	if s.useDurable {
		err = s.durable.Close()
	}
	if s.ephemeral != nil {
		if cerr := s.ephemeral.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
