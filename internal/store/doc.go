// Package store is the SQLite-backed evaluation journal.
//
// Every parse → operate → extract run the CLI performs can be appended as
// an Evaluation. The journal is append-only:
//
//   - IDs are UUIDv7 unless a generator is injected
//   - seq is assigned by the store and is the only ordering key
//   - steps and extracted values are stored as canonical JSON
//   - a content digest (see package canon) links identical evaluations
//
// All queries order by seq with id as a binary-collated tiebreak, so
// history listings are deterministic.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000ms
//   - a single open connection, so appends are serialized
package store
