// Package storage provides history.Storage backends.
//
//   - SQLiteStorage: database/sql with either modernc.org/sqlite ("sqlite",
//     no cgo) or github.com/mattn/go-sqlite3 ("sqlite3")
//   - PostgresStorage: pgx connection pool
//   - MemoryStorage: map-backed, for tests
//   - Nop: discards everything
//
// Open picks one from config.HistoryConfig. Both SQL backends share the
// schema and query builder; only placeholders, time encoding and booleans
// differ.
package storage
