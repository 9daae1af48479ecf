// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types.
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Querier is implemented by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to the database and verifies the connection, retrying
// while the server is unreachable. SQLite connections always enforce
// foreign keys so deletes cascade.
func Open(ctx context.Context, dbType, url string) (*sql.DB, error) {
	var driver, dsn string
	switch dbType {
	case TypePostgres:
		driver, dsn = "postgres", url
	case TypeSQLite:
		driver, dsn = "sqlite", sqliteDSN(url)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := pingWithRetry(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	// between a transaction and plain queries.
	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	return conn, nil
}

func sqliteDSN(url string) string {
	pragmas := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)"}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(pragmas, "&")
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The DDL is shared by PostgreSQL and SQLite.
const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Actions
CREATE TABLE IF NOT EXISTS pledge_action (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    question_text TEXT NOT NULL,
    co2_formula TEXT,
    water_formula TEXT,
    waste_formula TEXT,
    version TEXT NOT NULL,
    answer_kind TEXT NOT NULL CHECK (answer_kind IN ('food', 'energy')),
    answer_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (name, version)
);

-- Pledges
CREATE TABLE IF NOT EXISTS pledge (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    action_id TEXT NOT NULL REFERENCES pledge_action(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, action_id)
);

CREATE INDEX IF NOT EXISTS idx_pledge_user_id ON pledge(user_id);
CREATE INDEX IF NOT EXISTS idx_pledge_action_id ON pledge(action_id);

-- Food pledge answers
CREATE TABLE IF NOT EXISTS food_pledge (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL,
    pledge_id TEXT NOT NULL REFERENCES pledge(id) ON DELETE CASCADE,
    current_meals INTEGER NOT NULL,
    vegetarian_meals NUMERIC(3, 2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_food_pledge_pledge_id ON food_pledge(pledge_id);

-- Energy pledge answers
CREATE TABLE IF NOT EXISTS energy_pledge (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL,
    pledge_id TEXT NOT NULL REFERENCES pledge(id) ON DELETE CASCADE,
    energy_supplier NUMERIC(3, 2) NOT NULL,
    number_of_people INTEGER NOT NULL,
    heating_source NUMERIC(3, 2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_energy_pledge_pledge_id ON energy_pledge(pledge_id);
`
