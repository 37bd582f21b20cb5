// Package cached memoizes inference responses keyed by model, parameters
// and input.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/yanqian/legal-assistant/internal/domain/risk"
	"github.com/yanqian/legal-assistant/internal/domain/summarizer"
)

const (
	kindSummarize = "summarize"
	kindClassify  = "classify"
)

// Store is the key/value contract used by the cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Summarizer caches a summarizer.Model.
type Summarizer struct {
	next   summarizer.Model
	model  string
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewSummarizer wraps next; model is folded into the cache key.
func NewSummarizer(next summarizer.Model, model string, store Store, ttl time.Duration, logger *slog.Logger) *Summarizer {
	return &Summarizer{next: next, model: model, store: store, ttl: ttl, logger: logger.With("component", "cached.summarizer")}
}

// Summarize implements summarizer.Model.
func (s *Summarizer) Summarize(ctx context.Context, text string, params summarizer.Params) ([]summarizer.Candidate, error) {
	key := Key(kindSummarize, s.model, params, text)
	var out []summarizer.Candidate
	if lookup(ctx, s.store, key, &out, s.logger) {
		return out, nil
	}
	out, err := s.next.Summarize(ctx, text, params)
	if err != nil {
		return nil, err
	}
	if len(out) > 0 {
		save(ctx, s.store, key, out, s.ttl, s.logger)
	}
	return out, nil
}

// Classifier caches a risk.Classifier.
type Classifier struct {
	next   risk.Classifier
	model  string
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewClassifier wraps next; model is folded into the cache key.
func NewClassifier(next risk.Classifier, model string, store Store, ttl time.Duration, logger *slog.Logger) *Classifier {
	return &Classifier{next: next, model: model, store: store, ttl: ttl, logger: logger.With("component", "cached.classifier")}
}

// Classify implements risk.Classifier.
func (c *Classifier) Classify(ctx context.Context, premise, hypothesis string) ([]risk.Label, error) {
	key := Key(kindClassify, c.model, hypothesis, premise)
	var out []risk.Label
	if lookup(ctx, c.store, key, &out, c.logger) {
		return out, nil
	}
	out, err := c.next.Classify(ctx, premise, hypothesis)
	if err != nil {
		return nil, err
	}
	if len(out) > 0 {
		save(ctx, c.store, key, out, c.ttl, c.logger)
	}
	return out, nil
}

// Key derives a stable cache key from the call kind, the model id, the
// JSON encoding of params and the input text.
func Key(kind, model string, params any, input string) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	if encoded, err := json.Marshal(params); err == nil {
		h.Write(encoded)
	}
	h.Write([]byte{0})
	h.Write([]byte(input))
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Cache failures degrade to a miss; they never fail the call.
func lookup(ctx context.Context, store Store, key string, dst any, logger *slog.Logger) bool {
	payload, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.Warn("cache get failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		logger.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}
	logger.Debug("cache hit", "key", key)
	return true
}

func save(ctx context.Context, store Store, key string, value any, ttl time.Duration, logger *slog.Logger) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := store.Set(ctx, key, payload, ttl); err != nil {
		logger.Warn("cache set failed", "key", key, "error", err)
	}
}

var (
	_ summarizer.Model = (*Summarizer)(nil)
	_ risk.Classifier  = (*Classifier)(nil)
)
