package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sereenat7/DISHA-sub001/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			origin_number TEXT NOT NULL,
			num_rounds INTEGER NOT NULL,
			wait_between_ms INTEGER NOT NULL,
			contact_count INTEGER NOT NULL,
			started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at)`,
		`CREATE TABLE IF NOT EXISTS contact_reports (
			session_id TEXT NOT NULL,
			phone TEXT NOT NULL,
			successful_calls INTEGER NOT NULL,
			total_calls INTEGER NOT NULL,
			sms_sent INTEGER NOT NULL,
			report TEXT NOT NULL,
			PRIMARY KEY (session_id, phone),
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload TEXT,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, ts)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession records a newly accepted dispatch session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.AlertSession) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, status, origin_number, num_rounds, wait_between_ms, contact_count, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.SessionID, session.Status, session.OriginNumber, session.NumRounds, session.WaitBetweenMs, session.ContactCount, session.StartedAt)
	return err
}

// GetSession retrieves a session by ID. Returns nil when not found.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.AlertSession, error) {
	var session domain.AlertSession
	var endedAt sql.NullTime
	var errText sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, status, origin_number, num_rounds, wait_between_ms, contact_count, started_at, ended_at, elapsed_ms, error
		 FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.Status, &session.OriginNumber, &session.NumRounds,
		&session.WaitBetweenMs, &session.ContactCount, &session.StartedAt, &endedAt, &session.ElapsedMs, &errText)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		session.EndedAt = &endedAt.Time
	}
	if errText.Valid {
		session.Error = errText.String
	}
	return &session, nil
}

// ListSessions retrieves recent sessions, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]domain.AlertSession, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT session_id, status, origin_number, num_rounds, wait_between_ms, contact_count, started_at, ended_at, elapsed_ms, error
		 FROM sessions ORDER BY started_at DESC LIMIT %d`, limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.AlertSession
	for rows.Next() {
		var session domain.AlertSession
		var endedAt sql.NullTime
		var errText sql.NullString
		if err := rows.Scan(&session.SessionID, &session.Status, &session.OriginNumber, &session.NumRounds,
			&session.WaitBetweenMs, &session.ContactCount, &session.StartedAt, &endedAt, &session.ElapsedMs, &errText); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			session.EndedAt = &endedAt.Time
		}
		if errText.Valid {
			session.Error = errText.String
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// UpdateSessionStatus updates the status of a session.
func (s *SQLiteStore) UpdateSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ? WHERE session_id = ?`,
		status, sessionID)
	return err
}

// FinishSession records a session's terminal state.
func (s *SQLiteStore) FinishSession(ctx context.Context, session *domain.AlertSession) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, ended_at = ?, elapsed_ms = ?, error = ? WHERE session_id = ?`,
		session.Status, session.EndedAt, session.ElapsedMs, nullString(session.Error), session.SessionID)
	return err
}

// CreateContactReports records the aggregated per-contact outcomes of a
// finished session. Reports are stored in registry order.
func (s *SQLiteStore) CreateContactReports(ctx context.Context, sessionID string, reports []domain.ContactReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, report := range reports {
		payload, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report for %s: %w", report.Contact.Phone, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contact_reports (session_id, phone, successful_calls, total_calls, sms_sent, report) VALUES (?, ?, ?, ?, ?, ?)`,
			sessionID, report.Contact.Phone, report.SuccessfulCalls(), len(report.Calls), report.SmsSent(), string(payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetContactReports retrieves the per-contact reports of a session in
// registry order.
func (s *SQLiteStore) GetContactReports(ctx context.Context, sessionID string) ([]domain.ContactReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT report FROM contact_reports WHERE session_id = ? ORDER BY rowid ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.ContactReport
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var report domain.ContactReport
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// CreateEvent creates a new event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	payload := ""
	if event.Payload != nil {
		payload = string(event.Payload)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, session_id, ts, type, payload) VALUES (?, ?, ?, ?, ?)`,
		event.EventID, event.SessionID, event.Ts, event.Type, payload)
	return err
}

// GetEvents retrieves events for a session.
func (s *SQLiteStore) GetEvents(ctx context.Context, sessionID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	query := `SELECT event_id, session_id, ts, type, payload FROM events WHERE session_id = ?`
	args := []interface{}{sessionID}

	if afterTs > 0 {
		query += ` AND ts > ?`
		args = append(args, afterTs)
	}

	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += fmt.Sprintf(" AND type IN (%s)", strings.Join(placeholders, ","))
	}

	query += ` ORDER BY ts ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		var payload sql.NullString
		if err := rows.Scan(&event.EventID, &event.SessionID, &event.Ts, &event.Type, &payload); err != nil {
			return nil, err
		}
		if payload.Valid {
			event.Payload = json.RawMessage(payload.String)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
