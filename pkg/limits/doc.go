// Package limits groups the spending controls of the service.
//
// Sub-packages:
//
//   - budget: the per-request gate and the monthly spend tracker
//   - storage: persistence of the monthly ledger (memory, SQLite)
//
// The gate runs before any provider is called. The tracker is charged the
// actual cost after both providers have returned and, when enforced, rejects
// requests once the monthly budget is spent.
package limits
