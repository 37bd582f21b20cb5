package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)

	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "facebook/bart-large-cnn", cfg.Inference.SummarizationModel)
	require.Equal(t, "roberta-large-mnli", cfg.Inference.NLIModel)
	require.Equal(t, 20, cfg.Analysis.MaxClauses)
	require.Equal(t, 40, cfg.Analysis.MinClauseChars)
	require.Equal(t, 0.6, cfg.Analysis.EntailmentThreshold)
	require.Zero(t, cfg.HTTP.WriteTimeout)
	require.Contains(t, cfg.HTTP.AllowedOrigins, "http://localhost:5500")
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9000"
inference:
  nliModel: "microsoft/deberta-large-mnli"
  timeout: 15s
analysis:
  maxClauses: 5
ledger:
  driver: sqlite
  dsn: "file:ledger.db"
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SUMMARIZATION_MODEL", "sshleifer/distilbart-cnn-12-6")
	t.Setenv("ANALYSIS_ENTAILMENT_THRESHOLD", "0.75")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTP.Address)
	require.Equal(t, "microsoft/deberta-large-mnli", cfg.Inference.NLIModel)
	require.Equal(t, "sshleifer/distilbart-cnn-12-6", cfg.Inference.SummarizationModel)
	require.Equal(t, 15*time.Second, cfg.Inference.Timeout)
	require.Equal(t, 5, cfg.Analysis.MaxClauses)
	require.Equal(t, 40, cfg.Analysis.MinClauseChars)
	require.Equal(t, 0.75, cfg.Analysis.EntailmentThreshold)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, time.Hour, cfg.Cache.TTL)
	require.Equal(t, LedgerSQLite, cfg.Ledger.Driver)
}

func TestWriteTimeoutOverride(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("HTTP_WRITE_TIMEOUT", "15m")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, cfg.HTTP.WriteTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "unknown pdf engine", mutate: func(c *Config) { c.PDF.Engine = "ocr" }, wantErr: `pdf.engine "ocr" is not supported`},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Ledger.Driver = LedgerPostgres }, wantErr: `ledger.dsn cannot be empty for driver "postgres"`},
		{name: "auth without secret", mutate: func(c *Config) { c.Auth.Enabled = true }, wantErr: "auth.secret cannot be empty when auth is enabled"},
		{name: "valkey without addr", mutate: func(c *Config) { c.Cache.Valkey.Enabled = true }, wantErr: "cache.valkey.addr cannot be empty when valkey cache is enabled"},
		{name: "threshold out of range", mutate: func(c *Config) { c.Analysis.EntailmentThreshold = 1 }, wantErr: "analysis.entailmentThreshold must be in [0, 1)"},
		{name: "zero min clause chars", mutate: func(c *Config) { c.Analysis.MinClauseChars = 0 }, wantErr: "analysis.minClauseChars must be positive"},
		{name: "zero excerpt", mutate: func(c *Config) { c.Analysis.ExcerptChars = 0 }, wantErr: "analysis.excerptChars must be positive"},
		{name: "negative write timeout", mutate: func(c *Config) { c.HTTP.WriteTimeout = -time.Second }, wantErr: "http timeouts cannot be negative"},
		{name: "empty model", mutate: func(c *Config) { c.Inference.NLIModel = " " }, wantErr: "inference.nliModel cannot be empty"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			require.EqualError(t, cfg.Validate(), tt.wantErr)
		})
	}
}
