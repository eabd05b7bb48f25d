// Package sessions persists the identity session and CLI preferences across
// process restarts.
package sessions

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pmclarity/clarity/internal/identity"
)

// ErrNotFound indicates no persisted value exists.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS session (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    user_id TEXT NOT NULL,
    email TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    id_token TEXT NOT NULL,
    refresh_token TEXT NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS preferences (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const currentProjectKey = "current_project"

// Store is the SQLite-backed session store.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the session database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create session directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply session schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the single persisted session.
func (s *Store) Save(session identity.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO session (id, user_id, email, display_name, id_token, refresh_token, expires_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			email = excluded.email,
			display_name = excluded.display_name,
			id_token = excluded.id_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at`,
		session.User.ID,
		session.User.Email,
		session.User.DisplayName,
		session.IDToken,
		session.RefreshToken,
		session.ExpiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the persisted session, or ErrNotFound.
func (s *Store) Load() (*identity.Session, error) {
	var session identity.Session
	var expiresAt string
	err := s.db.QueryRow(`
		SELECT user_id, email, display_name, id_token, refresh_token, expires_at
		FROM session WHERE id = 1`).Scan(
		&session.User.ID,
		&session.User.Email,
		&session.User.DisplayName,
		&session.IDToken,
		&session.RefreshToken,
		&expiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	session.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parse session expiry: %w", err)
	}
	return &session, nil
}

// Delete removes the persisted session (sign-out).
func (s *Store) Delete() error {
	if _, err := s.db.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SaveCurrentProject remembers the last selected project.
func (s *Store) SaveCurrentProject(projectID string) error {
	return s.setPreference(currentProjectKey, projectID)
}

// CurrentProject returns the last selected project, or ErrNotFound.
func (s *Store) CurrentProject() (string, error) {
	return s.preference(currentProjectKey)
}

// ClearCurrentProject forgets the last selected project.
func (s *Store) ClearCurrentProject() error {
	if _, err := s.db.Exec(`DELETE FROM preferences WHERE key = ?`, currentProjectKey); err != nil {
		return fmt.Errorf("clear preference: %w", err)
	}
	return nil
}

func (s *Store) setPreference(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("save preference: %w", err)
	}
	return nil
}

func (s *Store) preference(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load preference: %w", err)
	}
	return value, nil
}
