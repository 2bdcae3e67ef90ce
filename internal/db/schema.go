package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. The backend owns all marketplace data;
// these tables only hold state local to this process.
const schema = `
CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS booking_drafts (
    id           TEXT PRIMARY KEY,
    session_key  TEXT NOT NULL,
    step         INTEGER NOT NULL DEFAULT 1 CHECK (step BETWEEN 1 AND 3),
    from_address TEXT NOT NULL DEFAULT '',
    to_address   TEXT NOT NULL DEFAULT '',
    distance_km  REAL CHECK (distance_km IS NULL OR distance_km >= 0),
    move_at      TEXT NOT NULL DEFAULT '',
    house_type   TEXT NOT NULL DEFAULT '',
    notes        TEXT NOT NULL DEFAULT '',
    generation   INTEGER NOT NULL DEFAULT 0,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_booking_drafts_session
    ON booking_drafts(session_key);

CREATE TABLE IF NOT EXISTS notices (
    id          INTEGER PRIMARY KEY,
    session_key TEXT NOT NULL,
    kind        TEXT NOT NULL CHECK (kind IN ('success', 'error')),
    message     TEXT NOT NULL,
    expires_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notices_session
    ON notices(session_key);

CREATE TABLE IF NOT EXISTS accepted_quotes (
    move_id     INTEGER PRIMARY KEY,
    quote_id    INTEGER NOT NULL,
    accepted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{}

// EnsureSchema creates all tables and indexes if they don't already exist,
// then applies migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
