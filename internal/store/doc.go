// Package store provides SQLite-backed journaling of rewrite sessions.
//
// Each rewritten query is recorded once, keyed by its session ID:
//   - Sessions: input and output hashes, query type, temp variable count
//     and the rewritten document as canonical JSON
//   - Diagnostics: the session's diagnostics in report order
//
// # Ordering
//
// Sessions carry a seq assigned at write time. Listings are ordered by
// seq ASC, id ASC COLLATE BINARY so repeated reads return identical
// results. Wall-clock time is never stored.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Hashes are computed with internal/canonical using SHA-256 with domain
// separation.
package store
