package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/legal-assistant/internal/domain/analysis"
	"github.com/yanqian/legal-assistant/internal/domain/auth"
	"github.com/yanqian/legal-assistant/internal/domain/extractor"
	"github.com/yanqian/legal-assistant/internal/domain/risk"
	"github.com/yanqian/legal-assistant/internal/domain/segmenter"
	"github.com/yanqian/legal-assistant/internal/domain/summarizer"
	"github.com/yanqian/legal-assistant/internal/infra/config"
	"github.com/yanqian/legal-assistant/internal/infra/inference/cached"
	"github.com/yanqian/legal-assistant/internal/infra/inference/huggingface"
	"github.com/yanqian/legal-assistant/internal/infra/inferencestore"
	"github.com/yanqian/legal-assistant/internal/infra/ledgerrepo"
	"github.com/yanqian/legal-assistant/internal/infra/pdftext"
	httpiface "github.com/yanqian/legal-assistant/internal/interface/http"
	"github.com/yanqian/legal-assistant/pkg/metrics"
)

const (
	startupAttempts = 3
	startupDelay    = 500 * time.Millisecond
	pingTimeout     = 5 * time.Second
)

// PipelineSet builds analysis.Service and its capabilities from config. The
// API server and legalctl share it so both honour the same pdf, cache and
// ledger settings.
var PipelineSet = wire.NewSet(
	ProvideExtractorConfig,
	ProvideSummarizerConfig,
	ProvideRiskConfig,
	ProvideAnalysisConfig,
	ProvidePDFParser,
	ProvideSegmenter,
	ProvideInferenceClient,
	ProvideCacheStore,
	ProvideSummarizationModel,
	ProvideClassifier,
	ProvideLedger,
	ProvideTokenCounter,
	extractor.NewService,
	summarizer.NewService,
	risk.NewFlagger,
	analysis.NewService,
	wire.Bind(new(analysis.Segmenter), new(*segmenter.Segmenter)),
	wire.Bind(new(analysis.Flagger), new(*risk.Flagger)),
)

// ProvideExtractorConfig projects the temp file directory.
func ProvideExtractorConfig(cfg *config.Config) extractor.Config {
	return extractor.Config{TempDir: cfg.PDF.TempDir}
}

// ProvidePDFParser prefers pdftotext when configured and falls back to the
// native parser when the binary cannot be found.
func ProvidePDFParser(cfg *config.Config, logger *slog.Logger) extractor.PDFParser {
	if cfg.PDF.Engine == config.PDFEnginePdftotext {
		poppler := pdftext.NewPoppler(cfg.PDF.PdftotextPath, pdftext.ExecRunner{})
		if err := poppler.Available(); err != nil {
			logger.Error("pdftotext unavailable, using native pdf parser", "path", cfg.PDF.PdftotextPath, "error", err)
			return pdftext.NewNative()
		}
		logger.Info("pdf engine enabled", "engine", config.PDFEnginePdftotext)
		return poppler
	}
	return pdftext.NewNative()
}

// ProvideSegmenter builds the clause segmenter.
func ProvideSegmenter(cfg *config.Config) *segmenter.Segmenter {
	return segmenter.New(segmenter.Config{
		MaxClauses:     cfg.Analysis.MaxClauses,
		MinClauseChars: cfg.Analysis.MinClauseChars,
	})
}

// ProvideSummarizerConfig projects the summary length.
func ProvideSummarizerConfig(cfg *config.Config) summarizer.Config {
	return summarizer.Config{MaxLength: cfg.Analysis.MaxSummaryLength}
}

// ProvideRiskConfig projects the entailment policy.
func ProvideRiskConfig(cfg *config.Config) risk.Config {
	return risk.Config{
		Threshold:    cfg.Analysis.EntailmentThreshold,
		ExcerptChars: cfg.Analysis.ExcerptChars,
	}
}

// ProvideAnalysisConfig projects the model ids recorded in the ledger.
func ProvideAnalysisConfig(cfg *config.Config) analysis.Config {
	return analysis.Config{
		SummarizationModel: cfg.Inference.SummarizationModel,
		NLIModel:           cfg.Inference.NLIModel,
	}
}

// ProvideAuthConfig projects the token settings.
func ProvideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:   cfg.Auth.Secret,
		TokenTTL: cfg.Auth.TokenTTL,
	}
}

// ProvideTokenCounter builds the ledger's token counter.
func ProvideTokenCounter(cfg *config.Config) analysis.TokenCounter {
	return metrics.NewTokenCounter(cfg.Analysis.TokenEncoding)
}

// ProvideInferenceClient builds the shared inference HTTP client.
func ProvideInferenceClient(cfg *config.Config, logger *slog.Logger) (*huggingface.Client, error) {
	return huggingface.NewClient(huggingface.Config{
		BaseURL:  cfg.Inference.BaseURL,
		APIToken: cfg.Inference.APIToken,
		Timeout:  cfg.Inference.Timeout,
	}, logger)
}

// ProvideCacheStore returns nil when caching is disabled.
func ProvideCacheStore(cfg *config.Config, logger *slog.Logger) cached.Store {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return inferencestore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return inferencestore.NewMemoryStore()
		}
		store := inferencestore.NewValkeyStore(client, "legal")
		if err := pingWithRetry(logger, "valkey", store.Ping); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
			return inferencestore.NewMemoryStore()
		}
		logger.Info("inference cache enabled", "backend", "valkey", "addr", cfg.Cache.Valkey.Addr)
		return store
	}
	logger.Info("inference cache enabled", "backend", "memory")
	return inferencestore.NewMemoryStore()
}

// ProvideSummarizationModel wraps the model in the cache when a store exists.
func ProvideSummarizationModel(cfg *config.Config, client *huggingface.Client, store cached.Store, logger *slog.Logger) summarizer.Model {
	model := huggingface.NewSummarizationModel(client, cfg.Inference.SummarizationModel)
	if store == nil {
		return model
	}
	return cached.NewSummarizer(model, model.Name(), store, cfg.Cache.TTL, logger)
}

// ProvideClassifier wraps the NLI model in the cache when a store exists.
func ProvideClassifier(cfg *config.Config, client *huggingface.Client, store cached.Store, logger *slog.Logger) risk.Classifier {
	classifier := huggingface.NewNLIClassifier(client, cfg.Inference.NLIModel)
	if store == nil {
		return classifier
	}
	return cached.NewClassifier(classifier, classifier.Name(), store, cfg.Cache.TTL, logger)
}

// ProvideLedger opens the configured ledger; the returned func releases it.
func ProvideLedger(cfg *config.Config, logger *slog.Logger) (analysis.Ledger, func(), error) {
	noop := func() {}
	switch cfg.Ledger.Driver {
	case config.LedgerSQLite:
		ledger, err := ledgerrepo.OpenSQLite(context.Background(), cfg.Ledger.DSN)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("analysis ledger enabled", "driver", config.LedgerSQLite)
		return ledger, func() {
			if err := ledger.Close(); err != nil {
				logger.Warn("closing sqlite ledger failed", "error", err)
			}
		}, nil
	case config.LedgerPostgres:
		ledger, closeFn, err := openPostgresLedger(cfg, logger)
		if err != nil {
			logger.Error("postgres ledger unavailable, using memory ledger", "error", err)
			return ledgerrepo.NewMemoryLedger(0), noop, nil
		}
		logger.Info("analysis ledger enabled", "driver", config.LedgerPostgres)
		return ledger, closeFn, nil
	default:
		return ledgerrepo.NewMemoryLedger(0), noop, nil
	}
}

func openPostgresLedger(cfg *config.Config, logger *slog.Logger) (*ledgerrepo.PostgresLedger, func(), error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.Ledger.DSN))
	if err != nil {
		return nil, nil, err
	}
	if cfg.Ledger.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Ledger.MaxConns
	}
	if cfg.Ledger.MinConns > 0 {
		poolConfig.MinConns = cfg.Ledger.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, nil, err
	}
	if err := pingWithRetry(logger, "postgres", pool.Ping); err != nil {
		pool.Close()
		return nil, nil, err
	}
	ledger := ledgerrepo.NewPostgresLedger(pool)
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := ledger.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return ledger, pool.Close, nil
}

// ProvideHandler builds the HTTP handler.
func ProvideHandler(cfg *config.Config, svc analysis.Service, logger *slog.Logger) *httpiface.Handler {
	return httpiface.NewHandler(svc, httpiface.ModelInfo{
		Summarizer: cfg.Inference.SummarizationModel,
		NLI:        cfg.Inference.NLIModel,
	}, cfg.HTTP.MaxUploadBytes, logger)
}

// pingWithRetry covers backing services that come up after the API during
// container starts. Requests themselves are never retried.
func pingWithRetry(logger *slog.Logger, name string, ping func(context.Context) error) error {
	return retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			defer cancel()
			return ping(ctx)
		},
		retry.Attempts(startupAttempts),
		retry.Delay(startupDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("startup ping failed, retrying", "service", name, "attempt", n+1, "error", err)
		}),
	)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
