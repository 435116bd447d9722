// Package history persists chat transcripts to SQLite so a session can be
// resumed later. Each entry is one transcript item — a user prompt, an
// assistant reply, or a tool result carrying an A2UI surface payload — and
// replaying a session walks its entries in sequence order.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Role classifies a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSurface   Role = "surface" // render_ui tool result
)

// Entry is one persisted transcript item. Surfaces holds the raw A2UI
// message array (JSON) for RoleSurface entries and is empty otherwise.
type Entry struct {
	ID        string
	SessionID string
	Seq       int
	Role      Role
	Content   string
	Surfaces  []byte
	CreatedAt time.Time
}

// SessionInfo summarizes a stored session.
type SessionInfo struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Entries   int
}

// Store is the SQLite-backed transcript store.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open initializes the database at path, creating the schema on first use.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS entries (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		surfaces   BLOB,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(session_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session_id, seq);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize history schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession registers a new session id with an optional title.
func (s *Store) CreateSession(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT OR IGNORE INTO sessions (id, title) VALUES (?, ?)`, id, title)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Append stores entry at the next sequence number of its session.
func (s *Store) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO entries (id, session_id, seq, role, content, surfaces)
		 VALUES (?, ?, (SELECT COALESCE(MAX(seq), -1) + 1 FROM entries WHERE session_id = ?), ?, ?, ?)`,
		entry.ID, entry.SessionID, entry.SessionID, string(entry.Role), entry.Content, entry.Surfaces,
	)
	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}

// LoadSession returns a session's entries ordered by sequence.
func (s *Store) LoadSession(sessionID string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT id, session_id, seq, role, content, surfaces, created_at
		 FROM entries WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var role string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &role, &e.Content, &e.Surfaces, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Role = Role(role)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Sessions lists stored sessions, most recent first.
func (s *Store) Sessions() ([]SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT s.id, s.title, s.created_at, COUNT(e.id)
		 FROM sessions s LEFT JOIN entries e ON e.session_id = s.id
		 GROUP BY s.id ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.Title, &info.CreatedAt, &info.Entries); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteSession removes a session and its entries.
func (s *Store) DeleteSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM entries WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session entries: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
