package summarizer

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/legal-assistant/pkg/errors"
)

// Service produces one summary for an arbitrarily long document.
type Service interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type service struct {
	cfg    Config
	model  Model
	logger *slog.Logger
}

// NewService is a wire provider for the summarizer domain.
func NewService(cfg Config, model Model, logger *slog.Logger) Service {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	return &service{cfg: cfg, model: model, logger: logger.With("component", "summarizer.service")}
}

// Summarize calls the model once for short inputs. Longer inputs are split
// into word chunks that are summarized individually, then the joined partial
// summaries are summarized again.
func (s *service) Summarize(ctx context.Context, text string) (string, error) {
	words := strings.Fields(text)
	if len(words) < directThreshold {
		return s.call(ctx, text, Params{MaxLength: s.cfg.MaxLength, MinLength: directMinLength, Truncation: true})
	}

	chunks := Chunk(words, chunkWords)
	s.logger.Debug("summarizing in chunks", "words", len(words), "chunks", len(chunks))

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		partial, err := s.call(ctx, chunk, Params{MaxLength: chunkMaxLength, MinLength: chunkMinLength, Truncation: true})
		if err != nil {
			s.logger.Warn("chunk summary failed", "chunk", i, "error", err)
			return "", err
		}
		partials = append(partials, partial)
	}

	return s.call(ctx, strings.Join(partials, " "), Params{MaxLength: s.cfg.MaxLength, MinLength: reduceMinLength, Truncation: true})
}

func (s *service) call(ctx context.Context, text string, params Params) (string, error) {
	candidates, err := s.model.Summarize(ctx, text, params)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeInference) {
			return "", err
		}
		return "", apperrors.Wrap(apperrors.CodeInference, "summarization request failed", err)
	}
	if len(candidates) == 0 {
		return "", apperrors.Wrap(apperrors.CodeInference, "summarization model returned no candidates", nil)
	}
	return candidates[0].Text, nil
}

// Chunk joins consecutive runs of at most size words with single spaces.
func Chunk(words []string, size int) []string {
	if size <= 0 {
		size = chunkWords
	}
	chunks := make([]string, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
