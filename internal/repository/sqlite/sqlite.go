// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// The catalog is small (a few departments, a few hundred courses) and is
// rebuilt wholesale from the catalog file, so an embedded database is enough:
// no separate server, and ":memory:" gives every test its own fresh database.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so the binary builds
// without a C compiler.
//
// DATABASE/SQL OVERVIEW:
//   - sql.DB     : a connection pool (NOT a single connection!)
//   - sql.Tx     : a transaction
//   - sql.Row    : a single result row
//   - sql.Rows   : multiple result rows (must be closed!)
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// The sqlite package's init() registers a database/sql driver named "sqlite".
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
// It implements repository.CatalogRepository (see catalog.go).
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/catalog.db"  → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests; lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// ONE CONNECTION:
	// Every new connection to ":memory:" opens a different, empty database,
	// so the pool must never grow past one. SQLite serialises writers anyway.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets other processes (the sqlite3 shell, a backup job) read the
	// file while a reload writes. Inside this process there is only the one
	// connection, so lookups wait for a running ReplaceCatalog to commit.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (for backwards compatibility).
	// curricula rows reference departments, so turn them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the catalog tables.
//
// CREATE TABLE IF NOT EXISTS is idempotent, so this runs on every start.
//
// title_key columns hold the lower-cased, trimmed title. Lookups compare keys
// so that "Data Science " and "data science" are the same course.
// position columns keep the order the catalog file lists courses in.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS departments (
			code TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS curricula (
			department_code TEXT NOT NULL REFERENCES departments(code) ON DELETE CASCADE,
			year            INTEGER NOT NULL DEFAULT 0,
			sheet           TEXT NOT NULL,
			PRIMARY KEY (department_code, year)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating department tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sheet_courses (
			sheet     TEXT NOT NULL,
			position  INTEGER NOT NULL,
			title     TEXT NOT NULL,
			title_key TEXT NOT NULL,
			category  TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_sheet_courses_key ON sheet_courses(sheet, title_key);

		CREATE TABLE IF NOT EXISTS online_courses (
			position  INTEGER PRIMARY KEY,
			title     TEXT NOT NULL,
			title_key TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_online_courses_key ON online_courses(title_key);
	`)
	if err != nil {
		return fmt.Errorf("creating course tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS catalog_loads (
			id             TEXT PRIMARY KEY,
			source         TEXT NOT NULL,
			departments    INTEGER NOT NULL,
			sheet_courses  INTEGER NOT NULL,
			online_courses INTEGER NOT NULL,
			loaded_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_catalog_loads_loaded_at ON catalog_loads(loaded_at);
	`)
	if err != nil {
		return fmt.Errorf("creating catalog_loads table: %w", err)
	}

	return nil
}
