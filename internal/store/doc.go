// Package store provides a SQLite-backed artifact cache for relayts runs.
//
// The cache records:
//   - Runs: one row per generate invocation, keyed by a random UUID
//   - Artifacts: generated TypeScript text, content-addressed by ir.ArtifactKey
//   - Run entries: which artifacts each run produced, and whether they were hits
//
// # Ordering
//
// All ordering uses seq INTEGER (logical clock), never timestamps. Queries
// that return lists include ORDER BY seq ASC, <key> COLLATE BINARY ASC so two
// runs over the same input read back identically.
//
// # Idempotency
//
// Artifacts are immutable: the key already encodes every input, so writes use
// ON CONFLICT(key) DO NOTHING.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
