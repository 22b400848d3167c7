package sqltable

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/hearth/internal/entity"
)

// Schema version tracking:
// 0 - empty database
// 1 - hearth_tables registry
const currentSchemaVersion = 1

// DB is a SQLite database holding one table per collection kind.
type DB struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at dsn.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// SQL returns the underlying sql.DB for direct queries.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// EnsureTable creates the table for a kind if it does not exist and records
// it in the registry.
func (d *DB) EnsureTable(ctx context.Context, name string, info entity.KindInfo) error {
	if _, err := d.db.ExecContext(ctx, createTableSQL(name, info)); err != nil {
		return fmt.Errorf("ensure table %s: %w", name, err)
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO hearth_tables (name, kind, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, string(info.Kind), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("ensure table %s: register: %w", name, err)
	}
	return nil
}

// OpenTable ensures the table exists and returns a handle to it.
func (d *DB) OpenTable(ctx context.Context, name string, info entity.KindInfo) (*Table, error) {
	if err := d.EnsureTable(ctx, name, info); err != nil {
		return nil, err
	}
	return &Table{db: d.db, name: name, info: info}, nil
}

// RegisteredTable is one row of the hearth_tables registry.
type RegisteredTable struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

// Tables lists the registered tables ordered by name.
func (d *DB) Tables(ctx context.Context) ([]RegisteredTable, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT name, kind, created_at FROM hearth_tables
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var out []RegisteredTable
	for rows.Next() {
		var t RegisteredTable
		if err := rows.Scan(&t.Name, &t.Kind, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("list tables: scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return out, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS hearth_tables (
			name       TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (d *DB) verifyPragma(name, expected string) error {
	var value string
	if err := d.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
