package budget

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parallax-hq/explainer/pkg/limits/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func TestTracker_CheckAndAdd(t *testing.T) {
	ctx := context.Background()
	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 1.0, Enforce: true}, nil)
	require.NoError(t, err)

	require.NoError(t, tracker.Check(0.6))
	require.NoError(t, tracker.Add(ctx, 0.6))

	err = tracker.Check(0.5)
	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, ReasonMonthlyBudgetExceeded, rejection.Reason)
	assert.Equal(t, 1.0, rejection.Limit)
	assert.InDelta(t, 1.1, rejection.Actual, 1e-9)

	assert.NoError(t, tracker.Check(0.4))
}

func TestTracker_NotEnforced(t *testing.T) {
	ctx := context.Background()
	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 1.0}, nil)
	require.NoError(t, err)

	require.NoError(t, tracker.Add(ctx, 5))
	assert.NoError(t, tracker.Check(1))

	status := tracker.Status()
	assert.False(t, status.Enforced)
	assert.False(t, status.Allowed)
	assert.Equal(t, 0.0, status.Remaining)
}

func TestTracker_AddIgnoresNonPositive(t *testing.T) {
	ctx := context.Background()
	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 1.0}, nil)
	require.NoError(t, err)

	require.NoError(t, tracker.Add(ctx, 0))
	require.NoError(t, tracker.Add(ctx, -2))
	assert.Equal(t, 0.0, tracker.Status().Used)
}

func TestTracker_Status(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.Local)}

	tracker, err := NewTracker(ctx, TrackerConfig{
		Budget:        10,
		Enforce:       true,
		ResetSchedule: "0 0 1 * *",
	}, nil, WithClock(clock.Now))
	require.NoError(t, err)

	require.NoError(t, tracker.Add(ctx, 2.5))

	status := tracker.Status()
	assert.True(t, status.Allowed)
	assert.True(t, status.Enforced)
	assert.Equal(t, 10.0, status.Limit)
	assert.Equal(t, 2.5, status.Used)
	assert.Equal(t, 7.5, status.Remaining)
	assert.InDelta(t, 0.25, status.Percentage, 1e-12)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.Local), status.NextReset)
}

func TestTracker_Reset(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()

	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 10}, backend)
	require.NoError(t, err)
	require.NoError(t, tracker.Add(ctx, 3))
	require.NoError(t, tracker.Reset(ctx))

	assert.Equal(t, 0.0, tracker.Status().Used)

	saved, err := backend.Load(ctx, DefaultLedger)
	require.NoError(t, err)
	assert.Equal(t, 0.0, saved.Spent)
}

func TestTracker_RestoresFromBackend(t *testing.T) {
	ctx := context.Background()
	backend, err := storage.NewSQLiteBackend(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer backend.Close()

	first, err := NewTracker(ctx, TrackerConfig{Budget: 10}, backend)
	require.NoError(t, err)
	require.NoError(t, first.Add(ctx, 1.5))
	require.NoError(t, first.Add(ctx, 0.25))

	second, err := NewTracker(ctx, TrackerConfig{Budget: 10}, backend)
	require.NoError(t, err)
	assert.InDelta(t, 1.75, second.Status().Used, 1e-9)
}

func TestTracker_ResetsElapsedPeriodOnRestore(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, &storage.SpendState{
		Ledger:      DefaultLedger,
		PeriodStart: time.Date(2026, 8, 3, 0, 0, 0, 0, time.Local),
		Spent:       9,
	}))

	clock := &fakeClock{now: time.Date(2026, 10, 15, 0, 0, 0, 0, time.Local)}
	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 10, ResetSchedule: "0 0 1 * *"}, backend, WithClock(clock.Now))
	require.NoError(t, err)

	status := tracker.Status()
	assert.Equal(t, 0.0, status.Used)
	assert.Equal(t, clock.Now(), status.PeriodStart)
}

func TestTracker_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewTracker(ctx, TrackerConfig{Budget: -1}, nil)
	assert.Error(t, err)

	_, err = NewTracker(ctx, TrackerConfig{Budget: 1, ResetSchedule: "every tuesday"}, nil)
	assert.Error(t, err)
}

func TestTracker_StartStop(t *testing.T) {
	ctx := context.Background()
	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 1, ResetSchedule: "0 0 1 * *"}, nil)
	require.NoError(t, err)

	tracker.Start()
	tracker.Start()
	tracker.Stop()
	tracker.Stop()
}

func TestTracker_ConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 100}, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, tracker.Add(ctx, 0.01))
		}()
	}
	wg.Wait()

	assert.InDelta(t, 0.5, tracker.Status().Used, 1e-9)
}

// stallingBackend holds its first Save until the test has queued another one.
type stallingBackend struct {
	*storage.MemoryBackend
	once    sync.Once
	entered chan struct{}
	delay   time.Duration
}

func (b *stallingBackend) Save(ctx context.Context, state *storage.SpendState) error {
	first := false
	b.once.Do(func() { first = true })
	if first {
		close(b.entered)
		time.Sleep(b.delay)
	}
	return b.MemoryBackend.Save(ctx, state)
}

func TestTracker_SavesInChargeOrder(t *testing.T) {
	ctx := context.Background()
	backend := &stallingBackend{
		MemoryBackend: storage.NewMemoryBackend(),
		entered:       make(chan struct{}),
		delay:         200 * time.Millisecond,
	}
	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 10}, backend)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- tracker.Add(ctx, 0.1) }()
	<-backend.entered

	require.NoError(t, tracker.Add(ctx, 0.2))
	require.NoError(t, <-done)

	saved, err := backend.Load(ctx, DefaultLedger)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.InDelta(t, 0.3, tracker.Status().Used, 1e-9)
	assert.InDelta(t, 0.3, saved.Spent, 1e-9)
	assert.Equal(t, int64(2), saved.Requests)
}

func TestTracker_ReserveAndSettle(t *testing.T) {
	ctx := context.Background()
	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 1.0, Enforce: true}, nil)
	require.NoError(t, err)

	require.NoError(t, tracker.Reserve(0.7))

	err = tracker.Reserve(0.5)
	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.InDelta(t, 1.2, rejection.Actual, 1e-9)
	assert.Error(t, tracker.Check(0.5))

	require.NoError(t, tracker.Settle(ctx, 0.7, 0.4))
	assert.InDelta(t, 0.4, tracker.Status().Used, 1e-9)
	assert.NoError(t, tracker.Reserve(0.5))
}

func TestTracker_SettleReleasesFailedRequest(t *testing.T) {
	ctx := context.Background()
	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 1.0, Enforce: true}, nil)
	require.NoError(t, err)

	require.NoError(t, tracker.Reserve(0.9))
	require.NoError(t, tracker.Settle(ctx, 0.9, 0))

	assert.Equal(t, 0.0, tracker.Status().Used)
	assert.NoError(t, tracker.Reserve(0.9))
}

func TestTracker_ConcurrentReserveNeverOverruns(t *testing.T) {
	ctx := context.Background()
	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 1.0, Enforce: true}, nil)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tracker.Reserve(0.1) != nil {
				return
			}
			mu.Lock()
			admitted++
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			assert.NoError(t, tracker.Settle(ctx, 0.1, 0.1))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, admitted)
	assert.LessOrEqual(t, tracker.Status().Used, 1.0+1e-9)
}

func TestTracker_ReserveNotEnforced(t *testing.T) {
	ctx := context.Background()
	tracker, err := NewTracker(ctx, TrackerConfig{Budget: 1.0}, nil)
	require.NoError(t, err)

	require.NoError(t, tracker.Reserve(5))
	require.NoError(t, tracker.Settle(ctx, 5, 2))
	assert.Equal(t, 2.0, tracker.Status().Used)
}
