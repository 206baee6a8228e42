// Package store persists interview sessions as keyed JSON documents.
// Sessions past their expiry are hidden from readers and marked expired
// in place.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spigell/ai-recruiter/internal/interview"
)

const schema = `
CREATE TABLE IF NOT EXISTS interviews (
	id         TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	created_at TEXT NOT NULL,
	expires_at TEXT NOT NULL,
	record     TEXT NOT NULL
);
`

// SQLite keeps interview sessions in a single-file database. A single
// writer connection avoids SQLITE_BUSY under concurrent use.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (and if needed creates) the database at path and
// ensures the schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open interview database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create interview schema: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Save writes the session as a full replacement of any previous record
// with the same id.
func (s *SQLite) Save(ctx context.Context, session *interview.Session) error {
	record, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode interview session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interviews (id, state, created_at, expires_at, record)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			expires_at = excluded.expires_at,
			record = excluded.record`,
		session.ID,
		string(session.State),
		session.CreatedAt.UTC().Format(time.RFC3339),
		session.ExpiresAt.UTC().Format(time.RFC3339),
		string(record),
	)
	if err != nil {
		return fmt.Errorf("save interview session %s: %w", session.ID, err)
	}

	return nil
}

// Load returns the session for id, or found=false when it is unknown or
// past its expiry. An expired session is marked expired on first read.
func (s *SQLite) Load(ctx context.Context, id string) (*interview.Session, bool, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM interviews WHERE id = ?`, id,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load interview session %s: %w", id, err)
	}

	session := &interview.Session{}
	if err := json.Unmarshal([]byte(record), session); err != nil {
		return nil, false, fmt.Errorf("decode interview session %s: %w", id, err)
	}

	if session.Expired(s.now().UTC()) {
		if err := s.markExpired(ctx, session); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	return session, true, nil
}

func (s *SQLite) markExpired(ctx context.Context, session *interview.Session) error {
	if session.State == interview.StateExpired {
		return nil
	}
	session.State = interview.StateExpired

	record, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode interview session: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE interviews SET state = ?, record = ? WHERE id = ?`,
		string(interview.StateExpired), string(record), session.ID,
	)
	if err != nil {
		return fmt.Errorf("expire interview session %s: %w", session.ID, err)
	}

	return nil
}
