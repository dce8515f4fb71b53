// Package sqlite provides the SQLite-backed update journal.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Every group update ncedit submits is recorded with the
// delta that was sent and whether the read-back verification passed.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.ncedit/data/journal.db
package sqlite
