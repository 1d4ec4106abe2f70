package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Bounty statuses. Open transitions to Claimed exactly once.
const (
	BountyOpen    = "Open"
	BountyClaimed = "Claimed"
)

// Bounty is a one-off reward, decoupled from tier rules. Claiming pays its
// value out through the event log.
type Bounty struct {
	ID     int64
	Name   string
	Value  int
	Status string
}

// ListBounties returns all bounties, open first, then by name.
func (db *DB) ListBounties() ([]Bounty, error) {
	rows, err := db.Query(`
		SELECT id, name, value, status FROM bounties
		ORDER BY status = 'Open' DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list bounties: %w", err)
	}
	defer rows.Close()

	var bounties []Bounty
	for rows.Next() {
		var b Bounty
		if err := rows.Scan(&b.ID, &b.Name, &b.Value, &b.Status); err != nil {
			return nil, fmt.Errorf("scan bounty: %w", err)
		}
		bounties = append(bounties, b)
	}
	return bounties, rows.Err()
}

// GetBounty returns the bounty with the given name, or nil.
func (db *DB) GetBounty(name string) (*Bounty, error) {
	var b Bounty
	err := db.QueryRow(`
		SELECT id, name, value, status FROM bounties WHERE name = ?
	`, name).Scan(&b.ID, &b.Name, &b.Value, &b.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get bounty: %w", err)
	}
	return &b, nil
}

// InsertBounty posts a new open bounty. Returns ErrDuplicateName if the
// name is taken.
func (db *DB) InsertBounty(name string, value int) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM bounties WHERE name = ?`, name).Scan(&count); err != nil {
		return fmt.Errorf("check bounty name: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("bounty %q: %w", name, ErrDuplicateName)
	}

	if _, err := db.Exec(`
		INSERT INTO bounties (name, value, status) VALUES (?, ?, 'Open')
	`, name, value); err != nil {
		return fmt.Errorf("insert bounty: %w", err)
	}
	return nil
}

// ClaimBounty flips an open bounty to Claimed and appends its payout event
// in a single transaction, so the payout can never happen twice. Returns
// ErrNotFound for unknown names and ErrAlreadyClaimed for non-open bounties.
func (db *DB) ClaimBounty(name string, now time.Time) (*Event, error) {
	b, err := db.GetBounty(name)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("bounty %q: %w", name, ErrNotFound)
	}
	if b.Status != BountyOpen {
		return nil, fmt.Errorf("bounty %q: %w", name, ErrAlreadyClaimed)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin claim: %w", err)
	}

	// The status guard repeats inside the transaction; RowsAffected catches
	// a claim that raced this one.
	result, err := tx.Exec(`
		UPDATE bounties SET status = 'Claimed' WHERE name = ? AND status = 'Open'
	`, name)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("claim bounty: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		tx.Rollback()
		return nil, fmt.Errorf("bounty %q: %w", name, ErrAlreadyClaimed)
	}

	event := Event{
		Timestamp: now.Truncate(time.Second),
		Activity:  BountyActivity,
		Duration:  0,
		Points:    b.Value,
		Notes:     "CLAIMED: " + name,
	}
	res, err := tx.Exec(`
		INSERT INTO events (timestamp, activity, duration, points, notes)
		VALUES (?, ?, ?, ?, ?)
	`, now.Format(TimeLayout), event.Activity, event.Duration, event.Points, event.Notes)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("insert payout event: %w", err)
	}
	event.ID, _ = res.LastInsertId()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}
	return &event, nil
}

// DeleteBounty hard-deletes a bounty regardless of status. Returns
// ErrNotFound if absent.
func (db *DB) DeleteBounty(name string) error {
	result, err := db.Exec(`DELETE FROM bounties WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete bounty: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("bounty %q: %w", name, ErrNotFound)
	}
	return nil
}
