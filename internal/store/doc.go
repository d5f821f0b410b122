// Package store owns the on-disk SQLite database of time entries: its
// location, shape, health, and all reads and writes against it.
//
// One Store instance covers both halves of that job. The startup half
// (Init) resolves the file location, migrates a legacy-location database
// into place, ensures the schema with PRAGMA user_version migrations and
// baselining for pre-versioning files, applies connection tuning, and runs
// an integrity check. The repository half (Retrieve, CurrentMaxID,
// UpsertBatch, Delete) serves CRUD over (date, id)-keyed records.
//
// # Durability rules
//
//   - Writes always run inside an explicit transaction, committed only
//     after every row operation in the batch succeeds.
//   - A busy/locked database is retried up to three times with linearly
//     increasing backoff; any other storage error aborts immediately.
//   - Records missing either clock time are skipped and logged, never
//     fatal to their batch.
//   - Integrity-check failure is surfaced as a warning, never fatal to
//     startup: the operator restores from backup while the database stays
//     usable.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Each operation opens and closes its own connection; no handle is held
// across calls, so there is no shared mutable state to protect. The only
// concurrency concern is inter-process file-lock contention, handled by
// the bounded retry policy.
package store
