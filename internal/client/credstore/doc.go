// Package credstore persists small string values, most importantly the
// session credential, across client restarts.
//
// Two implementations of Store are provided:
//   - SQLiteStore: a key/value table in the local SQLite database, migrated
//     with goose on Open.
//   - MemoryStore: a process-local map, used by tests and for ephemeral runs.
//
// A missing key is not an error: Get reports it through its bool result.
package credstore
