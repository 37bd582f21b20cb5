package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	PDFEngineNative    = "native"
	PDFEnginePdftotext = "pdftotext"

	LedgerMemory   = "memory"
	LedgerSQLite   = "sqlite"
	LedgerPostgres = "postgres"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Inference InferenceConfig `yaml:"inference"`
	PDF       PDFConfig       `yaml:"pdf"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Cache     CacheConfig     `yaml:"cache"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Auth      AuthConfig      `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	// WriteTimeout defaults to 0 (no deadline): an analysis holds the
	// response until every inference call has returned.
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	ShutdownGrace  time.Duration   `yaml:"shutdownGrace"`
	MaxUploadBytes int64           `yaml:"maxUploadBytes"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// InferenceConfig points at a Hugging Face compatible inference endpoint.
type InferenceConfig struct {
	BaseURL            string        `yaml:"baseUrl"`
	APIToken           string        `yaml:"apiToken"`
	SummarizationModel string        `yaml:"summarizationModel"`
	NLIModel           string        `yaml:"nliModel"`
	Timeout            time.Duration `yaml:"timeout"`
}

// PDFConfig selects the PDF text extraction engine.
type PDFConfig struct {
	Engine        string `yaml:"engine"`
	PdftotextPath string `yaml:"pdftotextPath"`
	TempDir       string `yaml:"tempDir"`
}

// AnalysisConfig holds the pipeline tunables.
type AnalysisConfig struct {
	MaxClauses          int     `yaml:"maxClauses"`
	MinClauseChars      int     `yaml:"minClauseChars"`
	MaxSummaryLength    int     `yaml:"maxSummaryLength"`
	EntailmentThreshold float64 `yaml:"entailmentThreshold"`
	ExcerptChars        int     `yaml:"excerptChars"`
	TokenEncoding       string  `yaml:"tokenEncoding"`
}

// CacheConfig controls the inference response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	Valkey  ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LedgerConfig selects the analysis ledger backend.
type LedgerConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// AuthConfig toggles the bearer token gate.
type AuthConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"tokenTtl"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_WRITE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.WriteTimeout = parsed
		}
	}
	if v := os.Getenv("HTTP_SHUTDOWN_GRACE"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ShutdownGrace = parsed
		}
	}
	if v := os.Getenv("HTTP_MAX_UPLOAD_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.HTTP.MaxUploadBytes = parsed
		}
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("INFERENCE_BASE_URL"); v != "" {
		cfg.Inference.BaseURL = v
	}
	if v := os.Getenv("HF_API_TOKEN"); v != "" {
		cfg.Inference.APIToken = v
	}
	if v := os.Getenv("SUMMARIZATION_MODEL"); v != "" {
		cfg.Inference.SummarizationModel = v
	}
	if v := os.Getenv("NLI_MODEL"); v != "" {
		cfg.Inference.NLIModel = v
	}
	if v := os.Getenv("INFERENCE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Inference.Timeout = parsed
		}
	}
	if v := os.Getenv("PDF_ENGINE"); v != "" {
		cfg.PDF.Engine = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("PDFTOTEXT_PATH"); v != "" {
		cfg.PDF.PdftotextPath = v
	}
	if v := os.Getenv("ANALYSIS_MAX_CLAUSES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.MaxClauses = parsed
		}
	}
	if v := os.Getenv("ANALYSIS_MIN_CLAUSE_CHARS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.MinClauseChars = parsed
		}
	}
	if v := os.Getenv("ANALYSIS_MAX_SUMMARY_LENGTH"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.MaxSummaryLength = parsed
		}
	}
	if v := os.Getenv("ANALYSIS_ENTAILMENT_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.EntailmentThreshold = parsed
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("CACHE_VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
	if v := os.Getenv("LEDGER_DRIVER"); v != "" {
		cfg.Ledger.Driver = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("LEDGER_DSN"); v != "" {
		cfg.Ledger.DSN = v
	}
	if v := os.Getenv("LEDGER_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Ledger.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("LEDGER_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Ledger.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("AUTH_ENABLED"); v != "" {
		cfg.Auth.Enabled = parseBool(v)
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8000",
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   0,
			ShutdownGrace:  10 * time.Second,
			MaxUploadBytes: 20 << 20,
			AllowedOrigins: []string{
				"http://127.0.0.1:5500",
				"http://localhost:5500",
				"http://localhost:8000",
				"http://127.0.0.1:8000",
			},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		Inference: InferenceConfig{
			BaseURL:            "https://api-inference.huggingface.co",
			SummarizationModel: "facebook/bart-large-cnn",
			NLIModel:           "roberta-large-mnli",
			Timeout:            60 * time.Second,
		},
		PDF: PDFConfig{
			Engine:        PDFEngineNative,
			PdftotextPath: "pdftotext",
		},
		Analysis: AnalysisConfig{
			MaxClauses:          20,
			MinClauseChars:      40,
			MaxSummaryLength:    200,
			EntailmentThreshold: 0.6,
			ExcerptChars:        200,
			TokenEncoding:       "cl100k_base",
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     24 * time.Hour,
		},
		Ledger: LedgerConfig{
			Driver:   LedgerMemory,
			MaxConns: 4,
			MinConns: 0,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 {
		return errors.New("http timeouts cannot be negative")
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		return errors.New("http.maxUploadBytes must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Inference.BaseURL) == "" {
		return errors.New("inference.baseUrl cannot be empty")
	}
	if strings.TrimSpace(c.Inference.SummarizationModel) == "" {
		return errors.New("inference.summarizationModel cannot be empty")
	}
	if strings.TrimSpace(c.Inference.NLIModel) == "" {
		return errors.New("inference.nliModel cannot be empty")
	}
	if c.Inference.Timeout <= 0 {
		return errors.New("inference.timeout must be positive")
	}
	switch c.PDF.Engine {
	case PDFEngineNative:
	case PDFEnginePdftotext:
		if strings.TrimSpace(c.PDF.PdftotextPath) == "" {
			return errors.New("pdf.pdftotextPath cannot be empty when pdf.engine is pdftotext")
		}
	default:
		return fmt.Errorf("pdf.engine %q is not supported", c.PDF.Engine)
	}
	if c.Analysis.MaxClauses <= 0 {
		return errors.New("analysis.maxClauses must be positive")
	}
	if c.Analysis.MinClauseChars <= 0 {
		return errors.New("analysis.minClauseChars must be positive")
	}
	if c.Analysis.ExcerptChars <= 0 {
		return errors.New("analysis.excerptChars must be positive")
	}
	if c.Analysis.MaxSummaryLength <= 0 {
		return errors.New("analysis.maxSummaryLength must be positive")
	}
	if c.Analysis.EntailmentThreshold < 0 || c.Analysis.EntailmentThreshold >= 1 {
		return errors.New("analysis.entailmentThreshold must be in [0, 1)")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	switch c.Ledger.Driver {
	case LedgerMemory:
	case LedgerSQLite, LedgerPostgres:
		if strings.TrimSpace(c.Ledger.DSN) == "" {
			return fmt.Errorf("ledger.dsn cannot be empty for driver %q", c.Ledger.Driver)
		}
	default:
		return fmt.Errorf("ledger.driver %q is not supported", c.Ledger.Driver)
	}
	if c.Auth.Enabled && strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty when auth is enabled")
	}
	return nil
}
