// Package journal records every MCP tool call in a local SQLite database.
//
// Each server run opens a session (a random UUID); the telemetry
// middleware appends one row per tool call with its duration and outcome.
// The get_tool_usage tool and the `plantmcp usage` command read it back.
// The plant hierarchy itself is never persisted here.
package journal

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeLayout sorts lexicographically, so ORDER BY on the text column is
// chronological.
const timeLayout = "2006-01-02 15:04:05.000"

// Status values stored per call.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─── Types ───────────────────────────────────────────────────────────────────

// Session is one server run.
type Session struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at,omitempty"`
}

// Call is one recorded tool invocation.
type Call struct {
	ID        int64         `json:"id"`
	SessionID string        `json:"session_id"`
	Tool      string        `json:"tool"`
	Status    string        `json:"status"`
	Duration  time.Duration `json:"duration"`
	Message   string        `json:"message,omitempty"`
	StartedAt time.Time     `json:"started_at"`
}

// ToolUsage aggregates the calls of one tool.
type ToolUsage struct {
	Tool       string  `json:"tool"`
	Calls      int     `json:"calls"`
	Failures   int     `json:"failures"`
	MeanMillis float64 `json:"mean_ms"`
	MaxMillis  float64 `json:"max_ms"`
}

// Stats holds aggregate journal statistics.
type Stats struct {
	TotalSessions int `json:"total_sessions"`
	TotalCalls    int `json:"total_calls"`
	FailedCalls   int `json:"failed_calls"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds journal configuration.
type Config struct {
	DataDir string
	// MaxMessageLength truncates stored error messages.
	MaxMessageLength int
}

// DefaultConfig returns the default journal configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:          filepath.Join(home, ".plantmcp"),
		MaxMessageLength: 500,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the SQLite-backed tool-call journal. It is safe for concurrent
// use; writes are serialized on a single connection.
type Store struct {
	db      *sql.DB
	cfg     Config
	session string
}

// New creates the data directory if needed, opens SQLite in WAL mode and
// runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, errors.Wrap(err, "journal: create data dir")
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	pragmas := []string{
		"journal_mode(WAL)",
		"busy_timeout(5000)",
		"synchronous(NORMAL)",
		"foreign_keys(ON)",
	}
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	dsn := "file:" + filepath.Join(cfg.DataDir, "journal.db") + "?" + q.Encode()

	db, err := openDB("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "journal: open database")
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "journal: migration")
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			label      TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at   TEXT
		);

		CREATE TABLE IF NOT EXISTS calls (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT    NOT NULL REFERENCES sessions(id),
			tool        TEXT    NOT NULL,
			status      TEXT    NOT NULL,
			duration_us INTEGER NOT NULL,
			message     TEXT,
			started_at  TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_calls_session ON calls(session_id);
		CREATE INDEX IF NOT EXISTS idx_calls_tool    ON calls(tool);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Sessions ────────────────────────────────────────────────────────────────

// StartSession opens a new session and makes it current. Subsequent
// Record calls are attributed to it. Call it before the store is shared.
func (s *Store) StartSession(ctx context.Context, label string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, label, started_at) VALUES (?, ?, ?)",
		id, label, now())
	if err != nil {
		return "", errors.Wrap(err, "journal: start session")
	}
	s.session = id
	return id, nil
}

// SessionID returns the current session, or "" before StartSession.
func (s *Store) SessionID() string {
	return s.session
}

// EndSession stamps the current session's end time.
func (s *Store) EndSession(ctx context.Context) error {
	if s.session == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET ended_at = ? WHERE id = ?", now(), s.session)
	return errors.Wrap(err, "journal: end session")
}

// GetSession returns one session by id.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		"SELECT id, label, started_at, ended_at FROM sessions WHERE id = ?", id,
	).Scan(&sess.ID, &sess.Label, &sess.StartedAt, &sess.EndedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "journal: get session %s", id)
	}
	return &sess, nil
}

// ─── Calls ───────────────────────────────────────────────────────────────────

// Record appends one call to the current session. It fails when no
// session has been started.
func (s *Store) Record(ctx context.Context, c Call) error {
	if s.session == "" {
		return errors.New("journal: no session started")
	}
	if c.StartedAt.IsZero() {
		c.StartedAt = time.Now()
	}
	if c.Status == "" {
		c.Status = StatusOK
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calls (session_id, tool, status, duration_us, message, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.session, c.Tool, c.Status, c.Duration.Microseconds(),
		nullableString(truncate(c.Message, s.cfg.MaxMessageLength)),
		c.StartedAt.UTC().Format(timeLayout),
	)
	return errors.Wrapf(err, "journal: record %s", c.Tool)
}

// Recent returns the latest calls across all sessions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Call, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, tool, status, duration_us, message, started_at
		 FROM calls ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "journal: recent calls")
	}
	defer func() { _ = rows.Close() }()

	var out []Call
	for rows.Next() {
		var (
			c       Call
			micros  int64
			message sql.NullString
			started string
		)
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Tool, &c.Status, &micros, &message, &started); err != nil {
			return nil, errors.Wrap(err, "journal: scan call")
		}
		c.Duration = time.Duration(micros) * time.Microsecond
		c.Message = message.String
		c.StartedAt, _ = time.Parse(timeLayout, started)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Usage aggregates calls per tool, most-called first. An empty sessionID
// covers every session.
func (s *Store) Usage(ctx context.Context, sessionID string) ([]ToolUsage, error) {
	query := `SELECT tool, COUNT(*),
			SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END),
			AVG(duration_us), MAX(duration_us)
		FROM calls`
	var args []any
	if sessionID != "" {
		query += " WHERE session_id = ?"
		args = append(args, sessionID)
	}
	query += " GROUP BY tool ORDER BY COUNT(*) DESC, tool ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "journal: usage")
	}
	defer func() { _ = rows.Close() }()

	out := []ToolUsage{}
	for rows.Next() {
		var (
			u            ToolUsage
			avgUS, maxUS float64
		)
		if err := rows.Scan(&u.Tool, &u.Calls, &u.Failures, &avgUS, &maxUS); err != nil {
			return nil, errors.Wrap(err, "journal: scan usage")
		}
		u.MeanMillis = avgUS / 1000
		u.MaxMillis = maxUS / 1000
		out = append(out, u)
	}
	return out, rows.Err()
}

// Stats returns aggregate journal statistics.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&stats.TotalSessions); err != nil {
		return nil, errors.Wrap(err, "journal: count sessions")
	}
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END), 0) FROM calls",
	).Scan(&stats.TotalCalls, &stats.FailedCalls)
	if err != nil {
		return nil, errors.Wrap(err, "journal: count calls")
	}
	return stats, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// truncate shortens s to at most limit bytes on a rune boundary.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := strings.ToValidUTF8(s[:limit], "")
	return cut + "..."
}

func now() string {
	return time.Now().UTC().Format(timeLayout)
}
