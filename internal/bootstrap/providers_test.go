package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/legal-assistant/internal/domain/analysis"
	"github.com/yanqian/legal-assistant/internal/infra/config"
	"github.com/yanqian/legal-assistant/internal/infra/inference/cached"
	"github.com/yanqian/legal-assistant/internal/infra/inferencestore"
	"github.com/yanqian/legal-assistant/internal/infra/ledgerrepo"
	"github.com/yanqian/legal-assistant/internal/infra/pdftext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvideLedgerDrivers(t *testing.T) {
	cfg := &config.Config{}
	cfg.Ledger.Driver = config.LedgerMemory
	ledger, cleanup, err := ProvideLedger(cfg, testLogger())
	require.NoError(t, err)
	cleanup()
	require.IsType(t, &ledgerrepo.MemoryLedger{}, ledger)

	cfg.Ledger.Driver = config.LedgerSQLite
	cfg.Ledger.DSN = filepath.Join(t.TempDir(), "ledger.db")
	ledger, cleanup, err = ProvideLedger(cfg, testLogger())
	require.NoError(t, err)
	defer cleanup()
	require.IsType(t, &ledgerrepo.SQLiteLedger{}, ledger)

	require.NoError(t, ledger.Record(context.Background(), analysis.Record{Source: analysis.SourceText, CreatedAt: time.Now().UTC()}))
	records, err := ledger.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestProvideLedgerPostgresFallsBackToMemory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Ledger.Driver = config.LedgerPostgres
	cfg.Ledger.DSN = "::not a dsn::"
	ledger, cleanup, err := ProvideLedger(cfg, testLogger())
	require.NoError(t, err)
	cleanup()
	require.IsType(t, &ledgerrepo.MemoryLedger{}, ledger)
}

func TestProvideCacheStore(t *testing.T) {
	cfg := &config.Config{}
	require.Nil(t, ProvideCacheStore(cfg, testLogger()))

	cfg.Cache.Enabled = true
	store := ProvideCacheStore(cfg, testLogger())
	require.IsType(t, &inferencestore.MemoryStore{}, store)

	cfg.Cache.Valkey.Enabled = true
	cfg.Cache.Valkey.Addr = "redis://%zz"
	require.IsType(t, &inferencestore.MemoryStore{}, ProvideCacheStore(cfg, testLogger()))
}

func TestProvideSummarizationModelWrapsWhenCaching(t *testing.T) {
	cfg := &config.Config{}
	cfg.Inference.BaseURL = "http://127.0.0.1:1"
	cfg.Inference.SummarizationModel = "facebook/bart-large-cnn"
	cfg.Inference.NLIModel = "roberta-large-mnli"
	cfg.Inference.Timeout = time.Second
	client, err := ProvideInferenceClient(cfg, testLogger())
	require.NoError(t, err)

	var none cached.Store
	require.NotNil(t, ProvideSummarizationModel(cfg, client, none, testLogger()))
	require.NotNil(t, ProvideClassifier(cfg, client, none, testLogger()))

	store := inferencestore.NewMemoryStore()
	require.NotNil(t, ProvideSummarizationModel(cfg, client, store, testLogger()))
	require.NotNil(t, ProvideClassifier(cfg, client, store, testLogger()))
}

func TestProvidePDFParserFallsBackToNative(t *testing.T) {
	cfg := &config.Config{}
	cfg.PDF.Engine = config.PDFEnginePdftotext
	cfg.PDF.PdftotextPath = filepath.Join(t.TempDir(), "no-such-pdftotext")
	require.IsType(t, &pdftext.Native{}, ProvidePDFParser(cfg, testLogger()))

	cfg.PDF.Engine = config.PDFEngineNative
	require.IsType(t, &pdftext.Native{}, ProvidePDFParser(cfg, testLogger()))
}

func TestPingWithRetry(t *testing.T) {
	calls := 0
	err := pingWithRetry(testLogger(), "test", func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
