package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Event is one logged discrete gesture.
type Event struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Direction   string    `json:"direction,omitempty"`
	Pose        string    `json:"pose,omitempty"`
	TimestampMs int64     `json:"timestamp_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// MarshalJSON leaves out x and y for events without a position. The
// columns hold zero for those rows.
func (e Event) MarshalJSON() ([]byte, error) {
	type event Event
	if e.Kind == "click" {
		return json.Marshal(event(e))
	}
	return json.Marshal(struct {
		event
		X *float64 `json:"x,omitempty"`
		Y *float64 `json:"y,omitempty"`
	}{event: event(e)})
}

// EventRepository appends to and reads the gesture event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append inserts e and trims the log to the newest retain entries in the
// same transaction. A retain of zero keeps everything.
func (r *EventRepository) Append(e *Event, retain int) error {
	e.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO gesture_events (session_id, name, kind, x, y, direction, pose, timestamp_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Name, e.Kind, e.X, e.Y, e.Direction, e.Pose, e.TimestampMs, e.CreatedAt,
	)
	if err != nil {
		return err
	}
	if e.ID, err = result.LastInsertId(); err != nil {
		return err
	}

	if retain > 0 {
		if _, err := tx.Exec(
			`DELETE FROM gesture_events WHERE id <= (
				SELECT id FROM gesture_events ORDER BY id DESC LIMIT 1 OFFSET ?
			)`, retain,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Recent returns up to limit events, newest first.
func (r *EventRepository) Recent(limit int) ([]Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, name, kind, x, y, direction, pose, timestamp_ms, created_at
		 FROM gesture_events
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Name, &e.Kind, &e.X, &e.Y,
			&e.Direction, &e.Pose, &e.TimestampMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Count returns the number of logged events.
func (r *EventRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM gesture_events`).Scan(&n)
	return n, err
}

// DeleteAll clears the log.
func (r *EventRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM gesture_events`)
	return err
}
