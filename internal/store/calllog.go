package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sautihq/sauti/internal/redact"
)

// Call kinds recorded in the voice call log.
const (
	CallKindSay  = "say"
	CallKindPlay = "play"
)

// DispatchRecord is one row of the dispatch audit log. Args holds masked
// arguments as a JSON object.
type DispatchRecord struct {
	ID         int64     `json:"id"`
	Operation  string    `json:"operation"`
	Args       string    `json:"args"`
	OK         bool      `json:"ok"`
	Detail     string    `json:"detail,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// CallRecord is one row of the voice call log.
type CallRecord struct {
	SessionID string    `json:"session_id"`
	ToNumber  string    `json:"to_number"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// CallLog persists dispatch and voice call history. It implements the
// dispatcher's audit sink.
type CallLog struct {
	db *DB
}

// NewCallLog creates a call log using the given database.
func NewCallLog(db *DB) *CallLog {
	return &CallLog{db: db}
}

// RecordDispatch inserts one dispatch outcome. Errors are logged, not
// returned; a failed audit write must never fail the dispatch itself.
func (c *CallLog) RecordDispatch(_ context.Context, operation string, args map[string]string, ok bool, detail string, duration time.Duration) {
	argsJSON := "{}"
	if len(args) > 0 {
		if data, err := json.Marshal(args); err == nil {
			argsJSON = string(data)
		}
	}

	okInt := 0
	if ok {
		okInt = 1
	}

	_, err := c.db.sql.Exec(
		`INSERT INTO dispatches (operation, args, ok, detail, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		operation, argsJSON, okInt, detail, duration.Milliseconds(),
		time.Now().UTC().Format(time.DateTime),
	)
	if err != nil {
		c.db.log.Error().Err(err).Str("operation", operation).Msg("failed to record dispatch")
	}
}

// RecordCall inserts one outbound voice call. The destination number is
// masked before it touches disk.
func (c *CallLog) RecordCall(_ context.Context, sessionID, toNumber, kind string) {
	_, err := c.db.sql.Exec(
		`INSERT INTO voice_calls (session_id, to_number, kind, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id) DO NOTHING`,
		sessionID, redact.PhoneNumber(toNumber), kind,
		time.Now().UTC().Format(time.DateTime),
	)
	if err != nil {
		c.db.log.Error().Err(err).Str("session", sessionID).Msg("failed to record call")
	}
}

// RecentDispatches returns the newest dispatch records, newest first.
// Limit of 0 defaults to 50.
func (c *CallLog) RecentDispatches(limit int) ([]DispatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := c.db.sql.Query(
		`SELECT id, operation, args, ok, detail, duration_ms, created_at
		 FROM dispatches ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DispatchRecord
	for rows.Next() {
		var (
			rec       DispatchRecord
			okInt     int
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Operation, &rec.Args, &okInt, &rec.Detail, &rec.DurationMS, &createdAt); err != nil {
			return nil, err
		}
		rec.OK = okInt != 0
		rec.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RecentCalls returns the newest voice call records, newest first. Limit
// of 0 defaults to 50.
func (c *CallLog) RecentCalls(limit int) ([]CallRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := c.db.sql.Query(
		`SELECT session_id, to_number, kind, created_at
		 FROM voice_calls ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CallRecord
	for rows.Next() {
		var (
			rec       CallRecord
			createdAt string
		)
		if err := rows.Scan(&rec.SessionID, &rec.ToNumber, &rec.Kind, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}
