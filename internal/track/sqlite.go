package track

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/voxgate/voxgate/internal/message"
)

// Journal persists tracked traffic into a SQLite table, one row per inbound
// or outbound message.
type Journal struct {
	db *sql.DB
}

// schema contains the journal table. New columns are added here.
const schema = `
CREATE TABLE IF NOT EXISTS tracked_messages (
    id TEXT NOT NULL,
    direction TEXT NOT NULL CHECK(direction IN ('in','out')),
    platform TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT '',
    session_id TEXT NOT NULL DEFAULT '',
    language TEXT NOT NULL DEFAULT '',
    intent TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_tracked_session ON tracked_messages(session_id, created_at);
`

// OpenJournal creates or opens a journal database at the given path.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging journal: %w", err)
	}
	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	return j, nil
}

// OpenMemoryJournal creates an in-memory journal (useful for testing).
func OpenMemoryJournal() (*Journal, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory journal: %w", err)
	}
	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	return j, nil
}

func (j *Journal) migrate() error {
	_, err := j.db.Exec(schema)
	return err
}

// Close releases the underlying database.
func (j *Journal) Close() error { return j.db.Close() }

func (j *Journal) Name() string { return "sqlite" }

func (j *Journal) TrackInput(ctx context.Context, in *message.Input) error {
	return j.insert(ctx, "in", in.Envelope, in.Message)
}

func (j *Journal) TrackOutput(ctx context.Context, out *message.Output) error {
	var parts []string
	for _, r := range out.Replies {
		parts = append(parts, r.Debug())
	}
	return j.insert(ctx, "out", out.Envelope, strings.Join(parts, " | "))
}

func (j *Journal) insert(ctx context.Context, direction string, env message.Envelope, body string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO tracked_messages (id, direction, platform, user_id, session_id, language, intent, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		env.ID, direction, env.Platform, env.UserID, env.SessionID, env.Language, env.Intent, body)
	if err != nil {
		return fmt.Errorf("inserting journal row: %w", err)
	}
	return nil
}

// Count returns the number of journal rows in the given direction. It backs
// the console stats endpoint and tests.
func (j *Journal) Count(ctx context.Context, direction string) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tracked_messages WHERE direction = ?`, direction).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting journal rows: %w", err)
	}
	return n, nil
}
