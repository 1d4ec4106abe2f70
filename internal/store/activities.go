package store

import (
	"database/sql"
	"fmt"
)

// Tier classifies an activity and selects its scoring rule. The set is
// closed: anything else is rejected at the boundary rather than scored as 0.
type Tier string

const (
	TierCore     Tier = "Core"
	TierDeepWork Tier = "DeepWork"
	TierRent     Tier = "Rent"
	TierSocial   Tier = "Social"
)

// ParseTier validates a tier string against the closed set.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierCore, TierDeepWork, TierRent, TierSocial:
		return Tier(s), nil
	}
	return "", fmt.Errorf("unrecognized tier %q", s)
}

// Activity is one trackable entry in the catalog. Tier is immutable after
// creation; removal is a hard delete and leaves historical events in place.
type Activity struct {
	ID     int64
	Name   string
	Tier   Tier
	Active bool
}

// ListActive returns all active activities, ordered by name.
func (db *DB) ListActive() ([]Activity, error) {
	rows, err := db.Query(`
		SELECT id, name, tier, active FROM activities
		WHERE active = 1 ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Tier, &a.Active); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// GetActivity returns the active activity with the given name, or nil.
func (db *DB) GetActivity(name string) (*Activity, error) {
	var a Activity
	err := db.QueryRow(`
		SELECT id, name, tier, active FROM activities
		WHERE name = ? AND active = 1
	`, name).Scan(&a.ID, &a.Name, &a.Tier, &a.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return &a, nil
}

// InsertActivity adds a new catalog entry. Returns ErrDuplicateName if the
// name is already present.
func (db *DB) InsertActivity(name string, tier Tier) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM activities WHERE name = ?`, name).Scan(&count); err != nil {
		return fmt.Errorf("check activity name: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("activity %q: %w", name, ErrDuplicateName)
	}

	if _, err := db.Exec(`
		INSERT INTO activities (name, tier, active) VALUES (?, ?, 1)
	`, name, string(tier)); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// DeleteActivity hard-deletes a catalog entry. No-op if absent; existing
// events keep referencing the name.
func (db *DB) DeleteActivity(name string) error {
	if _, err := db.Exec(`DELETE FROM activities WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}
