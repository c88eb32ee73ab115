package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteBackend implements Backend using SQLite for persistence.
// It is suitable for single-instance deployments where the monthly
// spend must survive restarts.
type SQLiteBackend struct {
	db        *sql.DB
	dbPath    string
	mu        sync.RWMutex
	closeOnce sync.Once

	saveStmt *sql.Stmt
	loadStmt *sql.Stmt
}

// SQLiteBackendConfig configures the SQLite backend.
type SQLiteBackendConfig struct {
	// DBPath is the path to the SQLite database file.
	// ":memory:" opens a private in-memory database.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteBackend creates a new SQLite storage backend with default settings.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	return NewSQLiteBackendWithConfig(SQLiteBackendConfig{
		DBPath:      dbPath,
		BusyTimeout: 5 * time.Second,
	})
}

// NewSQLiteBackendWithConfig creates a new SQLite backend with custom configuration.
func NewSQLiteBackendWithConfig(cfg SQLiteBackendConfig) (*SQLiteBackend, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer; a single connection also keeps
	// ":memory:" databases alive for the lifetime of the backend.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	backend := &SQLiteBackend{
		db:     db,
		dbPath: cfg.DBPath,
	}

	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := backend.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return backend, nil
}

func (s *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS spend_ledgers (
		ledger TEXT PRIMARY KEY,
		period_start INTEGER NOT NULL,
		spent REAL NOT NULL,
		requests INTEGER NOT NULL,
		last_updated INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteBackend) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO spend_ledgers (ledger, period_start, spent, requests, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (ledger) DO UPDATE SET
			period_start = excluded.period_start,
			spent = excluded.spent,
			requests = excluded.requests,
			last_updated = excluded.last_updated
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.loadStmt, err = s.db.Prepare(`
		SELECT period_start, spent, requests, last_updated
		FROM spend_ledgers
		WHERE ledger = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare load statement: %w", err)
	}

	return nil
}

// Save persists the ledger state.
func (s *SQLiteBackend) Save(ctx context.Context, state *SpendState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Ledger == "" {
		return fmt.Errorf("ledger cannot be empty")
	}

	if state.LastUpdated.IsZero() {
		state.LastUpdated = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.saveStmt.ExecContext(ctx,
		state.Ledger,
		state.PeriodStart.UnixNano(),
		state.Spent,
		state.Requests,
		state.LastUpdated.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save ledger %q: %w", state.Ledger, err)
	}

	return nil
}

// Load retrieves the ledger state, or nil if the ledger has never been saved.
func (s *SQLiteBackend) Load(ctx context.Context, ledger string) (*SpendState, error) {
	if ledger == "" {
		return nil, fmt.Errorf("ledger cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		periodStart int64
		spent       float64
		requests    int64
		lastUpdated int64
	)

	err := s.loadStmt.QueryRowContext(ctx, ledger).Scan(&periodStart, &spent, &requests, &lastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger %q: %w", ledger, err)
	}

	return &SpendState{
		Ledger:      ledger,
		PeriodStart: time.Unix(0, periodStart),
		Spent:       spent,
		Requests:    requests,
		LastUpdated: time.Unix(0, lastUpdated),
	}, nil
}

// Close closes the prepared statements and the database.
func (s *SQLiteBackend) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.saveStmt != nil {
			s.saveStmt.Close()
		}
		if s.loadStmt != nil {
			s.loadStmt.Close()
		}
		err = s.db.Close()
	})
	return err
}
