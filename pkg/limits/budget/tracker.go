package budget

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"parallax-hq/explainer/pkg/limits/storage"
)

// DefaultLedger is the storage key of the monthly spend ledger.
const DefaultLedger = "monthly"

// TrackerConfig configures a spend Tracker.
type TrackerConfig struct {
	// Budget is the spend ceiling for one period in USD. Zero means no limit.
	Budget float64

	// Enforce rejects requests that would overrun Budget.
	// When false the tracker only records spend.
	Enforce bool

	// ResetSchedule is a standard 5-field cron expression for period resets.
	// Empty disables automatic resets.
	ResetSchedule string

	// Ledger is the storage key. Defaults to DefaultLedger.
	Ledger string
}

// Tracker records actual spend for the current budget period.
//
// Spend is persisted to a storage.Backend after every change so that a
// SQLite-backed tracker resumes where it left off after a restart. A cron
// schedule started with Start resets the period.
//
// When enforced, in-flight requests hold their estimated cost through
// Reserve until Settle charges the actual cost.
type Tracker struct {
	config   TrackerConfig
	backend  storage.Backend
	schedule cron.Schedule
	logger   *slog.Logger
	now      func() time.Time

	state    storage.SpendState
	reserved float64

	cron *cron.Cron
	mu   sync.RWMutex

	// saveMu orders backend writes with state changes. Acquired before mu.
	saveMu sync.Mutex
}

// TrackerOption customizes a Tracker.
type TrackerOption func(*Tracker)

// WithLogger sets the logger used for reset and persistence events.
func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates a tracker and restores its state from backend.
// A nil backend keeps state in memory.
func NewTracker(ctx context.Context, config TrackerConfig, backend storage.Backend, opts ...TrackerOption) (*Tracker, error) {
	if config.Budget < 0 {
		return nil, fmt.Errorf("budget cannot be negative: %v", config.Budget)
	}
	if config.Ledger == "" {
		config.Ledger = DefaultLedger
	}
	if backend == nil {
		backend = storage.NewMemoryBackend()
	}

	t := &Tracker{
		config:  config,
		backend: backend,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	if config.ResetSchedule != "" {
		schedule, err := cron.ParseStandard(config.ResetSchedule)
		if err != nil {
			return nil, fmt.Errorf("invalid reset schedule %q: %w", config.ResetSchedule, err)
		}
		t.schedule = schedule
	}

	saved, err := backend.Load(ctx, config.Ledger)
	if err != nil {
		return nil, fmt.Errorf("failed to restore ledger: %w", err)
	}
	if saved != nil {
		t.state = *saved
	} else {
		t.state = storage.SpendState{Ledger: config.Ledger, PeriodStart: t.now()}
	}

	// A reset that fell due while the process was down is applied now.
	if t.schedule != nil && !t.schedule.Next(t.state.PeriodStart).After(t.now()) {
		t.logger.Info("budget period elapsed while stopped, resetting",
			"ledger", config.Ledger,
			"period_start", t.state.PeriodStart,
			"spent", t.state.Spent,
		)
		if err := t.Reset(ctx); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Enforced reports whether the tracker rejects requests over budget.
func (t *Tracker) Enforced() bool {
	return t.config.Enforce && t.config.Budget > 0
}

// Check reports whether charging amount would overrun the budget, counting
// outstanding reservations. It returns a *RejectionError with
// ReasonMonthlyBudgetExceeded when enforced and the budget would be exceeded,
// and nil otherwise.
func (t *Tracker) Check(amount float64) error {
	if !t.Enforced() {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.admit(amount)
}

// Reserve holds amount against the budget until Settle releases it. The check
// and the hold happen under one lock, so concurrent reservations are admitted
// only while their sum fits. It is a no-op when the tracker is not enforced.
func (t *Tracker) Reserve(amount float64) error {
	if !t.Enforced() || amount <= 0 || math.IsNaN(amount) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.admit(amount); err != nil {
		return err
	}
	t.reserved = roundCurrency(t.reserved + amount)
	return nil
}

// Settle releases a reservation made with Reserve and charges actual.
func (t *Tracker) Settle(ctx context.Context, reserved, actual float64) error {
	if !t.Enforced() || reserved <= 0 || math.IsNaN(reserved) {
		reserved = 0
	}
	return t.charge(ctx, reserved, actual)
}

// Add charges amount to the current period and persists the ledger.
// Non-positive amounts are ignored.
func (t *Tracker) Add(ctx context.Context, amount float64) error {
	return t.charge(ctx, 0, amount)
}

// admit must be called with mu held.
func (t *Tracker) admit(amount float64) error {
	projected := roundCurrency(t.state.Spent + t.reserved + amount)
	if projected > t.config.Budget {
		return &RejectionError{
			Reason: ReasonMonthlyBudgetExceeded,
			Limit:  t.config.Budget,
			Actual: projected,
		}
	}
	return nil
}

func (t *Tracker) charge(ctx context.Context, release, amount float64) error {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	t.mu.Lock()
	if release > 0 {
		t.reserved = math.Max(0, roundCurrency(t.reserved-release))
	}
	if amount <= 0 || math.IsNaN(amount) {
		t.mu.Unlock()
		return nil
	}
	t.state.Spent = roundCurrency(t.state.Spent + amount)
	t.state.Requests++
	t.state.LastUpdated = t.now()
	snapshot := t.state
	t.mu.Unlock()

	if err := t.backend.Save(ctx, &snapshot); err != nil {
		return fmt.Errorf("failed to persist spend: %w", err)
	}
	return nil
}

// Reset starts a new budget period with zero spend.
func (t *Tracker) Reset(ctx context.Context) error {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	t.mu.Lock()
	previous := t.state.Spent
	now := t.now()
	t.state = storage.SpendState{
		Ledger:      t.config.Ledger,
		PeriodStart: now,
		LastUpdated: now,
	}
	snapshot := t.state
	t.mu.Unlock()

	t.logger.Info("budget period reset",
		"ledger", t.config.Ledger,
		"previous_spent", previous,
	)

	if err := t.backend.Save(ctx, &snapshot); err != nil {
		return fmt.Errorf("failed to persist reset: %w", err)
	}
	return nil
}

// Status returns the spend for the current period.
func (t *Tracker) Status() Status {
	t.mu.RLock()
	state := t.state
	t.mu.RUnlock()

	status := Status{
		Allowed:     true,
		Enforced:    t.Enforced(),
		Limit:       t.config.Budget,
		Used:        state.Spent,
		PeriodStart: state.PeriodStart,
	}

	if t.config.Budget > 0 {
		status.Remaining = math.Max(0, roundCurrency(t.config.Budget-state.Spent))
		status.Percentage = state.Spent / t.config.Budget
		status.Allowed = state.Spent < t.config.Budget
	}

	if t.schedule != nil {
		status.NextReset = t.schedule.Next(t.now())
	}

	return status
}

// Start runs the reset schedule in the background. It is a no-op when no
// schedule is configured or the schedule is already running.
func (t *Tracker) Start() {
	if t.schedule == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cron != nil {
		return
	}

	t.cron = cron.New()
	t.cron.Schedule(t.schedule, cron.FuncJob(func() {
		if err := t.Reset(context.Background()); err != nil {
			t.logger.Error("scheduled budget reset failed", "ledger", t.config.Ledger, "error", err)
		}
	}))
	t.cron.Start()
}

// Stop halts the reset schedule and waits for a running reset to finish.
func (t *Tracker) Stop() {
	t.mu.Lock()
	c := t.cron
	t.cron = nil
	t.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func roundCurrency(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
