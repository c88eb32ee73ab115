package storage

import (
	"context"
	"time"
)

// Backend defines the interface for ledger persistence.
// Implementations must be thread-safe and support concurrent access.
type Backend interface {
	// Save persists the state of a ledger, replacing any previous value.
	Save(ctx context.Context, state *SpendState) error

	// Load retrieves the state of a ledger.
	// Returns nil if nothing has been saved yet. Returns error on system failure.
	Load(ctx context.Context, ledger string) (*SpendState, error)

	// Close releases any resources held by the backend.
	Close() error
}

// SpendState is the persisted state of one spend ledger.
type SpendState struct {
	// Ledger names the ledger (for example "monthly").
	Ledger string

	// PeriodStart is when the current budget period began.
	PeriodStart time.Time

	// Spent is the accumulated spend in USD for the current period.
	Spent float64

	// Requests is the number of charged requests in the current period.
	Requests int64

	// LastUpdated is when this state was last modified.
	LastUpdated time.Time
}

// Clone returns a copy of the state.
func (s *SpendState) Clone() *SpendState {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
