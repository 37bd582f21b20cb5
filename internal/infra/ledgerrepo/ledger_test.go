package ledgerrepo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/legal-assistant/internal/domain/analysis"
)

func sampleRecord(i int, at time.Time) analysis.Record {
	return analysis.Record{
		ID:                 uuid.New(),
		Source:             analysis.SourceDocument,
		Filename:           "msa.pdf",
		Words:              100 + i,
		Tokens:             130 + i,
		TokensEstimated:    i%2 == 0,
		Clauses:            i,
		Findings:           1,
		DurationMs:         int64(1500 + i),
		SummarizationModel: "facebook/bart-large-cnn",
		NLIModel:           "roberta-large-mnli",
		CreatedAt:          at,
	}
}

func exerciseLedger(t *testing.T, ledger analysis.Ledger) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	records := []analysis.Record{
		sampleRecord(0, base),
		sampleRecord(1, base.Add(100*time.Millisecond)),
		sampleRecord(2, base.Add(time.Second)),
	}
	for _, rec := range records {
		require.NoError(t, ledger.Record(ctx, rec))
	}

	got, err := ledger.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, records[2].ID, got[0].ID)
	require.Equal(t, records[1].ID, got[1].ID)
	require.Equal(t, records[2].Words, got[0].Words)
	require.Equal(t, records[2].TokensEstimated, got[0].TokensEstimated)
	require.Equal(t, records[1].TokensEstimated, got[1].TokensEstimated)
	require.True(t, records[2].CreatedAt.Equal(got[0].CreatedAt))

	got, err = ledger.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, records[0].ID, got[2].ID)
}

func TestMemoryLedger(t *testing.T) {
	t.Parallel()
	exerciseLedger(t, NewMemoryLedger(0))
}

func TestMemoryLedgerCapacity(t *testing.T) {
	t.Parallel()
	ledger := NewMemoryLedger(2)
	ctx := context.Background()
	now := time.Now()
	first := sampleRecord(0, now)
	require.NoError(t, ledger.Record(ctx, first))
	require.NoError(t, ledger.Record(ctx, sampleRecord(1, now)))
	require.NoError(t, ledger.Record(ctx, sampleRecord(2, now)))

	got, err := ledger.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, rec := range got {
		require.NotEqual(t, first.ID, rec.ID)
	}
}

func TestSQLiteLedger(t *testing.T) {
	t.Parallel()
	ledger, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })
	require.NoError(t, ledger.Ping(context.Background()))

	exerciseLedger(t, ledger)
}

func TestSQLiteLedgerReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	first, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	rec := sampleRecord(7, time.Now().UTC())
	require.NoError(t, first.Record(ctx, rec))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	got, err := second.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, rec.ID, got[0].ID)
}
