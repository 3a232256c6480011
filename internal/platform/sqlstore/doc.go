// Package sqlstore implements store.LibraryStore on a SQL database.
//
// Two dialects are supported: SQLite through mattn/go-sqlite3 for local,
// single-file libraries, and PostgreSQL through the pgx stdlib driver for
// shared deployments. Both share one schema, managed with goose migrations
// embedded in the binary. Timestamps are stored as unix nanoseconds so the
// schema needs no dialect-specific types.
package sqlstore
