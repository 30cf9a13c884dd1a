package assistant

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"agrow/internal/app/user"
	"agrow/internal/pkg/logx"
)

// The session store holds exactly two keys, written and cleared together:
// the opaque token and the JSON-encoded user profile.
const (
	kvKeyToken = "token"
	kvKeyUser  = "user"
)

// SessionStore persists the current session across client restarts in a
// local SQLite file, the terminal-client analog of the browser's local
// key-value store. A session exists in the store iff the client is
// authenticated.
type SessionStore struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenSessionStore opens (creating if needed) the store at path. Sessions
// older than ttl are treated as absent at load time; a ttl of zero disables
// expiry. Expiry is purely a client convention, the gateway never checks
// tokens.
func OpenSessionStore(path string, ttl time.Duration) (*SessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize session store schema: %w", err)
	}

	return &SessionStore{db: db, ttl: ttl}, nil
}

// Save writes the session's token and profile in one transaction.
func (s *SessionStore) Save(sess *user.Session) error {
	profile, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user profile: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin session write: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	upsert := `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`

	if _, err := tx.Exec(upsert, kvKeyToken, sess.Token, now); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if _, err := tx.Exec(upsert, kvKeyUser, string(profile), now); err != nil {
		return fmt.Errorf("write user profile: %w", err)
	}

	return tx.Commit()
}

// Load returns the stored session, or nil when none exists or the stored
// one has outlived the TTL. An expired session is cleared on the way out.
func (s *SessionStore) Load() (*user.Session, error) {
	var token string
	var savedAt int64
	err := s.db.QueryRow(`SELECT value, updated_at FROM kv WHERE key = ?`, kvKeyToken).
		Scan(&token, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}

	if s.ttl > 0 && time.Since(time.Unix(savedAt, 0)) > s.ttl {
		logx.Info("stored session expired, clearing")
		if err := s.Clear(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var profileJSON string
	err = s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, kvKeyUser).Scan(&profileJSON)
	if errors.Is(err, sql.ErrNoRows) {
		// Token without profile means a torn write; treat as absent.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user profile: %w", err)
	}

	var profile user.Profile
	if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
		return nil, fmt.Errorf("decode user profile: %w", err)
	}

	return &user.Session{Token: token, User: profile}, nil
}

// Clear removes both keys. Called on logout.
func (s *SessionStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key IN (?, ?)`, kvKeyToken, kvKeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
