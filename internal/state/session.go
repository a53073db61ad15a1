package state

import (
	"database/sql"
	"fmt"
	"time"
)

// SessionMemory is one task execution's persistent record.
type SessionMemory struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Output    string    `json:"output"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSession inserts a new session record.
func (db *DB) CreateSession(s *SessionMemory) error {
	_, err := db.exec(`
		INSERT INTO sessions (id, task, output, success, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.ID, s.Task, s.Output, boolToInt(s.Success), formatTime(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UpdateSession overwrites the outcome fields of a session.
func (db *DB) UpdateSession(s *SessionMemory) error {
	_, err := db.exec(`
		UPDATE sessions SET task = ?, output = ?, success = ? WHERE id = ?
	`, s.Task, s.Output, boolToInt(s.Success), s.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by id, or nil when absent.
func (db *DB) GetSession(id string) (*SessionMemory, error) {
	row := db.queryRow(`
		SELECT id, task, output, success, created_at
		FROM sessions WHERE id = ?
	`, id)

	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// ListSessions returns the most recent sessions, newest first. A
// non-positive limit returns all of them.
func (db *DB) ListSessions(limit int) ([]SessionMemory, error) {
	q := `SELECT id, task, output, success, created_at FROM sessions ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionMemory
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// AppendMessage adds one message line to a session's log.
func (db *DB) AppendMessage(sessionID, message string) error {
	_, err := db.exec(`
		INSERT INTO session_messages (session_id, message, created_at)
		VALUES (?, ?, ?)
	`, sessionID, message, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// SessionMessages returns a session's message log in insertion order.
func (db *DB) SessionMessages(sessionID string) ([]string, error) {
	rows, err := db.query(`
		SELECT message FROM session_messages WHERE session_id = ? ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session messages: %w", err)
	}
	defer rows.Close()

	var messages []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*SessionMemory, error) {
	var s SessionMemory
	var success int
	var createdAt string
	if err := row.Scan(&s.ID, &s.Task, &s.Output, &success, &createdAt); err != nil {
		return nil, err
	}
	s.Success = success != 0
	s.CreatedAt, _ = parseTime(createdAt)
	return &s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
