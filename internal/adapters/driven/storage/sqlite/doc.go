// Package sqlite provides a SQLite-based implementation of the invoice store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It persists two things through a single
// database connection:
//
//   - the invoice counter, so numbering survives restarts
//   - the invoice register, one row per generated invoice
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.voucherbill/data/invoices.db
//
// # Thread Safety
//
// All operations are thread-safe. Counter increments are a single
// UPDATE ... RETURNING statement, so concurrent callers never share a number.
package sqlite
