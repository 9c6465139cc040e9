package usage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS usage_records (
	id                TEXT PRIMARY KEY,
	provider          TEXT NOT NULL,
	model             TEXT NOT NULL,
	prompt_tokens     INTEGER NOT NULL,
	completion_tokens INTEGER NOT NULL,
	total_tokens      INTEGER NOT NULL,
	cost_usd          REAL NOT NULL,
	user_id           TEXT,
	session_id        TEXT,
	created_at        TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_usage_user_created ON usage_records(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_usage_provider_model ON usage_records(provider, model);
`

// SQLiteSink persists usage records to a local SQLite database. WAL mode
// keeps writers from blocking the occasional reporting read.
type SQLiteSink struct {
	db     *sql.DB
	insert *sql.Stmt
}

// NewSQLiteSink opens (and migrates) the database at path.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening usage database: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating usage schema: %w", err)
	}

	insert, err := db.PrepareContext(ctx, `
		INSERT INTO usage_records
			(id, provider, model, prompt_tokens, completion_tokens, total_tokens, cost_usd, user_id, session_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing usage insert: %w", err)
	}
	return &SQLiteSink{db: db, insert: insert}, nil
}

// Write implements Sink.
func (s *SQLiteSink) Write(ctx context.Context, rec *Record) error {
	_, err := s.insert.ExecContext(ctx,
		rec.ID, rec.Provider, rec.Model,
		rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens,
		rec.CostUSD, rec.UserID, rec.SessionID, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting usage record: %w", err)
	}
	return nil
}

// TotalCost sums recorded cost for one user since a cutoff.
func (s *SQLiteSink) TotalCost(ctx context.Context, userID string, since time.Time) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(cost_usd) FROM usage_records WHERE user_id = ? AND created_at >= ?`,
		userID, since,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing usage cost: %w", err)
	}
	return total.Float64, nil
}

// Close implements Sink.
func (s *SQLiteSink) Close() error {
	s.insert.Close()
	return s.db.Close()
}
