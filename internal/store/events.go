package store

import (
	"database/sql"
	"fmt"
	"time"
)

// TimeLayout is the on-disk timestamp format: ISO-8601, local time,
// second precision. Lexicographic order matches chronological order,
// which the date-window queries rely on.
const TimeLayout = "2006-01-02T15:04:05"

// Reserved activity names for sentinel events. These never appear in the
// activity catalog; they are distinguished by convention only.
const (
	SystemActivity = "System"
	BountyActivity = "Bounty Hunt"

	// ExamModeNote marks an exam mode activation fee event.
	ExamModeNote = "Exam Mode Activated"
)

// Event is one row of the append-only session log. Points may be negative
// (exam fee) and id order is authoritative for "most recent".
type Event struct {
	ID        int64
	Timestamp time.Time
	Activity  string
	Duration  int
	Points    int
	Notes     string
}

const eventColumns = "id, timestamp, activity, duration, points, notes"

func scanEvent(row interface{ Scan(...any) error }) (*Event, error) {
	var e Event
	var ts string
	if err := row.Scan(&e.ID, &ts, &e.Activity, &e.Duration, &e.Points, &e.Notes); err != nil {
		return nil, err
	}
	t, err := time.ParseInLocation(TimeLayout, ts, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	e.Timestamp = t
	return &e, nil
}

// InsertEvent appends one event and returns its id.
func (db *DB) InsertEvent(ts time.Time, activity string, duration, points int, notes string) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO events (timestamp, activity, duration, points, notes)
		VALUES (?, ?, ?, ?, ?)
	`, ts.Format(TimeLayout), activity, duration, points, notes)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("event id: %w", err)
	}
	return id, nil
}

// ListEvents returns the full log in id order.
func (db *DB) ListEvents() ([]Event, error) {
	return db.queryEvents(`SELECT ` + eventColumns + ` FROM events ORDER BY id`)
}

// ListEventsSince returns all events at or after t, in id order.
func (db *DB) ListEventsSince(t time.Time) ([]Event, error) {
	return db.queryEvents(`
		SELECT `+eventColumns+` FROM events
		WHERE timestamp >= ? ORDER BY id
	`, t.Format(TimeLayout))
}

// ListActivityEventsOn returns the events for one activity on the calendar
// day containing `day` (local time), in id order. This is the same-day
// slice the scoring rules consult.
func (db *DB) ListActivityEventsOn(activity string, day time.Time) ([]Event, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	return db.queryEvents(`
		SELECT `+eventColumns+` FROM events
		WHERE activity = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY id
	`, activity, start.Format(TimeLayout), end.Format(TimeLayout))
}

func (db *DB) queryEvents(query string, args ...any) ([]Event, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// LatestExamActivation returns the most recent exam mode sentinel event,
// or nil if none was ever logged.
func (db *DB) LatestExamActivation() (*Event, error) {
	row := db.QueryRow(`
		SELECT `+eventColumns+` FROM events
		WHERE activity = ? AND notes = ?
		ORDER BY id DESC LIMIT 1
	`, SystemActivity, ExamModeNote)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest exam activation: %w", err)
	}
	return e, nil
}

// DeleteMostRecentEvent removes the event with the maximum id and returns
// it. Returns nil if the log is empty.
func (db *DB) DeleteMostRecentEvent() (*Event, error) {
	row := db.QueryRow(`SELECT ` + eventColumns + ` FROM events ORDER BY id DESC LIMIT 1`)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find most recent event: %w", err)
	}

	if _, err := db.Exec(`DELETE FROM events WHERE id = ?`, e.ID); err != nil {
		return nil, fmt.Errorf("delete event %d: %w", e.ID, err)
	}
	return e, nil
}
