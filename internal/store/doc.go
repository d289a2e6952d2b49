// Package store provides the SQLite-backed journal behind the aggregation
// store.
//
// Worker processes that finish tests independently all write into the same
// journal file. The journal enforces first-write-wins per identity key with a
// UNIQUE constraint and ON CONFLICT DO NOTHING, so duplicated or retried
// completion callbacks never overwrite the original record.
//
// # Ordering
//
// Records are read back ORDER BY seq ASC, which is the order in which they
// were first accepted. Reconciliation output follows manifest order, so this
// only affects diagnostics and the in-memory rehydration order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// A journal holds exactly one run at a time. Reset clears the records and
// stamps a new run ID in a single transaction.
package store
