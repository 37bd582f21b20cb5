package ledgerrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/yanqian/legal-assistant/internal/domain/analysis"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	filename TEXT NOT NULL DEFAULT '',
	words INTEGER NOT NULL,
	tokens INTEGER NOT NULL,
	tokens_estimated INTEGER NOT NULL,
	clauses INTEGER NOT NULL,
	findings INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	summarization_model TEXT NOT NULL,
	nli_model TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`

// Fixed width so that text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteLedger stores records in a local SQLite database.
type SQLiteLedger struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the ledger at dsn, a file path or
// ":memory:".
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteLedger, error) {
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteLedger{db: db}, nil
}

// Record implements analysis.Ledger.
func (l *SQLiteLedger) Record(ctx context.Context, rec analysis.Record) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO analyses (
			id, source, filename, words, tokens, tokens_estimated, clauses,
			findings, duration_ms, summarization_model, nli_model, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID.String(), rec.Source, rec.Filename, rec.Words, rec.Tokens, rec.TokensEstimated,
		rec.Clauses, rec.Findings, rec.DurationMs, rec.SummarizationModel, rec.NLIModel,
		rec.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (l *SQLiteLedger) Recent(ctx context.Context, limit int) ([]analysis.Record, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, source, filename, words, tokens, tokens_estimated, clauses,
			findings, duration_ms, summarization_model, nli_model, created_at
		FROM analyses
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	out := make([]analysis.Record, 0, limit)
	for rows.Next() {
		var (
			rec       analysis.Record
			id        string
			createdAt string
		)
		if err := rows.Scan(
			&id, &rec.Source, &rec.Filename, &rec.Words, &rec.Tokens, &rec.TokensEstimated,
			&rec.Clauses, &rec.Findings, &rec.DurationMs, &rec.SummarizationModel, &rec.NLIModel,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing analysis id: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parsing analysis timestamp: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Ping checks the database connection.
func (l *SQLiteLedger) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

// Close closes the database connection.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

var _ analysis.Ledger = (*SQLiteLedger)(nil)
