// Package storage provides persistence backends for spend ledger state.
//
// # Overview
//
// A ledger records how much has been spent in the current budget period.
// Two backends are provided:
//
//   - Memory: in-process storage (default, lost on restart)
//   - SQLite: single-file persistence for single-instance deployments
//
// # Usage
//
//	backend, err := storage.NewSQLiteBackend("/var/lib/parallax/ledger.db")
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
//
//	state, err := backend.Load(ctx, "monthly")
//	if state == nil {
//	    state = &storage.SpendState{Ledger: "monthly", PeriodStart: time.Now()}
//	}
//	state.Spent += 0.00915
//	err = backend.Save(ctx, state)
//
// # Thread Safety
//
// All backends are safe for concurrent use.
package storage
