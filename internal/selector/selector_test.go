package selector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gymkeeper/internal/memstore"
	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// fakeDurable wraps the in-memory store with a controllable initialization
// surface so tests can force failures and delays at each stage.
type fakeDurable struct {
	*memstore.Store

	mu        sync.Mutex
	openErr   error
	pingErr   error
	schemaErr error
	seedErr   error
	seedDelay time.Duration

	opens   int
	pings   int
	schemas int
	seeds   int
	closes  int
}

func newFakeDurable(config types.Config) *fakeDurable {
	return &fakeDurable{Store: memstore.New(config)}
}

func (f *fakeDurable) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	return f.openErr
}

func (f *fakeDurable) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeDurable) CreateSchema(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schemas++
	return f.schemaErr
}

func (f *fakeDurable) SeedDefaults(ctx context.Context) error {
	f.mu.Lock()
	delay := f.seedDelay
	err := f.seedErr
	f.seeds++
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeDurable) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeDurable) counts() (opens, schemas, seeds, closes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens, f.schemas, f.seeds, f.closes
}

func (f *fakeDurable) set(mutate func(*fakeDurable)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mutate(f)
}

// stubBridge reports a fixed connectivity answer and counts probes.
type stubBridge struct {
	connected bool
	probes    atomic.Int32
}

func (b *stubBridge) Connected(ctx context.Context) bool {
	b.probes.Add(1)
	return b.connected
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sqliteConfig(t *testing.T) types.Config {
	t.Helper()
	return types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
}

func newTestSelector(t *testing.T, config types.Config, durable *fakeDurable, opts Options) *Selector {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	if opts.Bridge == nil {
		opts.Bridge = &stubBridge{connected: true}
	}
	s, err := New(config, durable, memstore.New(config), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(types.Config{}, nil, nil, Options{Logger: quietLogger()})
	require.ErrorIs(t, err, types.ErrBackendEmpty)

	_, err = New(types.Config{Backend: "papyrus"}, nil, nil, Options{Logger: quietLogger()})
	require.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestMemoryBackendSkipsInitialization(t *testing.T) {
	config := types.Config{Backend: types.BackendMemory}
	s := newTestSelector(t, config, nil, Options{})

	assert.Equal(t, types.BackendMemory, s.Backend())
	assert.Equal(t, StateReady, s.State())
	assert.NoError(t, s.DurableError())

	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))

	id, err := s.AddMember(ctx, validMember())
	require.NoError(t, err)
	got, err := s.GetMember(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got.Name)
}

func TestUnwritableDataDirFallsBackToMemory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: filepath.Join(blocker, "nested"),
	}
	durable := newFakeDurable(config)
	s := newTestSelector(t, config, durable, Options{})

	assert.Equal(t, types.BackendMemory, s.Backend())
	require.ErrorIs(t, s.DurableError(), types.ErrBackendUnavailable)

	// Operations route to the ephemeral store without touching the durable one.
	_, err := s.AddMember(context.Background(), validMember())
	require.NoError(t, err)
	opens, _, _, _ := durable.counts()
	assert.Zero(t, opens)
}

func TestInitializeRunsStagesOnce(t *testing.T) {
	config := sqliteConfig(t)
	durable := newFakeDurable(config)
	s := newTestSelector(t, config, durable, Options{})

	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, types.BackendSQLite, s.Backend())

	require.NoError(t, s.Initialize(ctx))
	opens, schemas, seeds, _ := durable.counts()
	assert.Equal(t, 1, opens)
	assert.Equal(t, 1, schemas)
	assert.Equal(t, 1, seeds)
}

func TestConcurrentInitializeSharesOneSequence(t *testing.T) {
	config := sqliteConfig(t)
	durable := newFakeDurable(config)
	durable.set(func(f *fakeDurable) { f.seedDelay = 50 * time.Millisecond })
	s := newTestSelector(t, config, durable, Options{})

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Initialize(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	_, _, seeds, _ := durable.counts()
	assert.Equal(t, 1, seeds, "all callers must attach to one sequence")
}

func TestInitializeTimesOutWithStage(t *testing.T) {
	config := sqliteConfig(t)
	durable := newFakeDurable(config)
	durable.set(func(f *fakeDurable) { f.seedDelay = time.Minute })
	s := newTestSelector(t, config, durable, Options{InitTimeout: 50 * time.Millisecond})

	err := s.Initialize(context.Background())
	var timeoutErr *types.InitTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, StateSeedingDefaults, timeoutErr.Stage)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)
	assert.Equal(t, StateFailed, s.State())
}

func TestInitializeRetriesAfterFailure(t *testing.T) {
	config := sqliteConfig(t)
	durable := newFakeDurable(config)
	schemaBoom := errors.New("schema boom")
	durable.set(func(f *fakeDurable) { f.schemaErr = schemaBoom })
	s := newTestSelector(t, config, durable, Options{})

	ctx := context.Background()
	err := s.Initialize(ctx)
	require.ErrorIs(t, err, schemaBoom)
	assert.Equal(t, StateFailed, s.State())
	_, _, _, closes := durable.counts()
	assert.Equal(t, 1, closes, "failed initialization must release the handle")

	// A fresh call after the failure starts over and succeeds.
	durable.set(func(f *fakeDurable) { f.schemaErr = nil })
	require.NoError(t, s.Initialize(ctx))
	assert.Equal(t, StateReady, s.State())
	opens, schemas, _, _ := durable.counts()
	assert.Equal(t, 2, opens)
	assert.Equal(t, 2, schemas)
}

func TestOpenFailureIsIgnoredWhenPingSucceeds(t *testing.T) {
	config := sqliteConfig(t)
	durable := newFakeDurable(config)
	durable.set(func(f *fakeDurable) { f.openErr = errors.New("spurious open failure") })
	s := newTestSelector(t, config, durable, Options{})

	require.NoError(t, s.Initialize(context.Background()))
	assert.Equal(t, StateReady, s.State())
	_, schemas, seeds, _ := durable.counts()
	assert.Equal(t, 1, schemas)
	assert.Equal(t, 1, seeds)
}

func TestOpenFailurePropagatesWhenPingFails(t *testing.T) {
	config := sqliteConfig(t)
	durable := newFakeDurable(config)
	openBoom := errors.New("open boom")
	durable.set(func(f *fakeDurable) {
		f.openErr = openBoom
		f.pingErr = errors.New("not reachable")
	})
	s := newTestSelector(t, config, durable, Options{})

	err := s.Initialize(context.Background())
	require.ErrorIs(t, err, openBoom)
	_, schemas, _, _ := durable.counts()
	assert.Zero(t, schemas, "schema creation must not run after a real open failure")
}

func TestBridgeExhaustionProceeds(t *testing.T) {
	config := sqliteConfig(t)
	durable := newFakeDurable(config)
	bridge := &stubBridge{connected: false}
	s := newTestSelector(t, config, durable, Options{
		Bridge:         bridge,
		BridgeAttempts: 3,
		BridgeInterval: time.Millisecond,
	})

	require.NoError(t, s.Initialize(context.Background()))
	assert.Equal(t, int32(3), bridge.probes.Load())
	assert.Equal(t, StateReady, s.State())
}

func TestOperationTriggersLazyInitialization(t *testing.T) {
	config := sqliteConfig(t)
	durable := newFakeDurable(config)
	s := newTestSelector(t, config, durable, Options{})

	ctx := context.Background()
	id, err := s.AddMember(ctx, validMember())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, StateReady, s.State())
	_, _, seeds, _ := durable.counts()
	assert.Equal(t, 1, seeds)
}

func TestOperationTimesOutWhileInitializationStalls(t *testing.T) {
	config := sqliteConfig(t)
	durable := newFakeDurable(config)
	durable.set(func(f *fakeDurable) { f.seedDelay = time.Minute })
	s := newTestSelector(t, config, durable, Options{
		InitTimeout:  time.Minute,
		ReadyTimeout: 50 * time.Millisecond,
	})

	_, err := s.GetAllMembers(context.Background())
	var timeoutErr *types.InitTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)
}

func TestOperationErrorsKeepSentinels(t *testing.T) {
	config := types.Config{Backend: types.BackendMemory}
	s := newTestSelector(t, config, nil, Options{})

	_, err := s.GetMember(context.Background(), "missing")
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Contains(t, err.Error(), "get member")
}

func validMember() *types.Member {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &types.Member{
		Name:           "Asha Rao",
		Phone:          "9876543210",
		MembershipType: types.MembershipMonthly,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 30),
		IsActive:       true,
	}
}
