package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "events: append-only session and sentinel log",
		SQL: `
CREATE TABLE events (
    id        INTEGER PRIMARY KEY,
    timestamp TEXT    NOT NULL,
    activity  TEXT    NOT NULL,
    duration  INTEGER NOT NULL DEFAULT 0 CHECK (duration >= 0),
    points    INTEGER NOT NULL DEFAULT 0,
    notes     TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX idx_events_timestamp ON events(timestamp);
CREATE INDEX idx_events_activity  ON events(activity, timestamp);
`,
	},
	{
		Version:     2,
		Description: "activities: trackable activity catalog",
		SQL: `
CREATE TABLE activities (
    id     INTEGER PRIMARY KEY,
    name   TEXT    NOT NULL UNIQUE,
    tier   TEXT    NOT NULL CHECK (tier IN ('Core', 'DeepWork', 'Rent', 'Social')),
    active INTEGER NOT NULL DEFAULT 1
);
`,
	},
	{
		Version:     3,
		Description: "bounties: one-off claimable rewards",
		SQL: `
CREATE TABLE bounties (
    id     INTEGER PRIMARY KEY,
    name   TEXT    NOT NULL UNIQUE,
    value  INTEGER NOT NULL CHECK (value >= 0),
    status TEXT    NOT NULL DEFAULT 'Open' CHECK (status IN ('Open', 'Claimed'))
);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
