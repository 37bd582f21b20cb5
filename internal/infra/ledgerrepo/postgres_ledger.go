package ledgerrepo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/legal-assistant/internal/domain/analysis"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id UUID PRIMARY KEY,
	source TEXT NOT NULL,
	filename TEXT NOT NULL DEFAULT '',
	words INTEGER NOT NULL,
	tokens INTEGER NOT NULL,
	tokens_estimated BOOLEAN NOT NULL,
	clauses INTEGER NOT NULL,
	findings INTEGER NOT NULL,
	duration_ms BIGINT NOT NULL,
	summarization_model TEXT NOT NULL,
	nli_model TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`

// PostgresLedger implements analysis.Ledger using pgx.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger constructs the ledger.
func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

// EnsureSchema creates the analyses table when missing.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Record implements analysis.Ledger.
func (l *PostgresLedger) Record(ctx context.Context, rec analysis.Record) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO analyses (
			id, source, filename, words, tokens, tokens_estimated, clauses,
			findings, duration_ms, summarization_model, nli_model, created_at
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		rec.ID.String(), rec.Source, rec.Filename, rec.Words, rec.Tokens, rec.TokensEstimated,
		rec.Clauses, rec.Findings, rec.DurationMs, rec.SummarizationModel, rec.NLIModel, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (l *PostgresLedger) Recent(ctx context.Context, limit int) ([]analysis.Record, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id::text, source, filename, words, tokens, tokens_estimated, clauses,
			findings, duration_ms, summarization_model, nli_model, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	out := make([]analysis.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (analysis.Record, error) {
	var (
		rec analysis.Record
		id  string
	)
	if err := row.Scan(
		&id, &rec.Source, &rec.Filename, &rec.Words, &rec.Tokens, &rec.TokensEstimated,
		&rec.Clauses, &rec.Findings, &rec.DurationMs, &rec.SummarizationModel, &rec.NLIModel,
		&rec.CreatedAt,
	); err != nil {
		return analysis.Record{}, fmt.Errorf("scanning analysis: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return analysis.Record{}, fmt.Errorf("parsing analysis id: %w", err)
	}
	rec.ID = parsed
	return rec, nil
}

var _ analysis.Ledger = (*PostgresLedger)(nil)
