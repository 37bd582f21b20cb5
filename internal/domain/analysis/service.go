package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yanqian/legal-assistant/internal/domain/extractor"
	"github.com/yanqian/legal-assistant/internal/domain/summarizer"
	apperrors "github.com/yanqian/legal-assistant/pkg/errors"
)

// Service runs the document-to-findings pipeline.
type Service interface {
	Analyze(ctx context.Context, req Request) (Result, error)
	Recent(ctx context.Context, limit int) ([]Record, error)
}

type service struct {
	cfg        Config
	extractor  extractor.Service
	segmenter  Segmenter
	summarizer summarizer.Service
	flagger    Flagger
	ledger     Ledger
	tokens     TokenCounter
	logger     *slog.Logger
	now        func() time.Time
}

// NewService is a wire provider for the analysis domain.
func NewService(
	cfg Config,
	ext extractor.Service,
	seg Segmenter,
	sum summarizer.Service,
	flagger Flagger,
	ledger Ledger,
	tokens TokenCounter,
	logger *slog.Logger,
) Service {
	return &service{
		cfg:        cfg,
		extractor:  ext,
		segmenter:  seg,
		summarizer: sum,
		flagger:    flagger,
		ledger:     ledger,
		tokens:     tokens,
		logger:     logger.With("component", "analysis.service"),
		now:        time.Now,
	}
}

func (s *service) Analyze(ctx context.Context, req Request) (Result, error) {
	if req.Empty() {
		return EmptyResult(), nil
	}
	start := s.now()

	text, source, err := s.resolveText(ctx, req)
	if err != nil {
		return Result{}, err
	}

	result := EmptyResult()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Clauses = s.segmenter.Segment(text)
		result.FlaggedRisks = s.flagger.Flag(gctx, result.Clauses)
		return nil
	})
	g.Go(func() error {
		summary, err := s.summarizer.Summarize(gctx, text)
		if err != nil {
			return err
		}
		result.Summary = summary
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("analysis failed", "source", source, "error", err)
		return Result{}, err
	}
	if result.Clauses == nil {
		result.Clauses = []string{}
	}
	if result.FlaggedRisks == nil {
		result.FlaggedRisks = []string{}
	}

	s.record(ctx, req, source, text, result, s.now().Sub(start))
	return result, nil
}

func (s *service) resolveText(ctx context.Context, req Request) (string, string, error) {
	if req.Document == nil {
		return req.Text, SourceText, nil
	}
	text, err := s.extractor.Extract(ctx, *req.Document)
	if err != nil {
		if apperrors.CodeOf(err) == "" {
			err = apperrors.Wrap(apperrors.CodeExtraction, "failed to extract document text", err)
		}
		return "", SourceDocument, err
	}
	return text, SourceDocument, nil
}

func (s *service) record(ctx context.Context, req Request, source, text string, result Result, elapsed time.Duration) {
	if s.ledger == nil {
		return
	}
	rec := Record{
		ID:                 uuid.New(),
		Source:             source,
		Words:              len(strings.Fields(text)),
		Clauses:            len(result.Clauses),
		Findings:           len(result.FlaggedRisks),
		DurationMs:         elapsed.Milliseconds(),
		SummarizationModel: s.cfg.SummarizationModel,
		NLIModel:           s.cfg.NLIModel,
		CreatedAt:          s.now().UTC(),
	}
	if req.Document != nil {
		rec.Filename = req.Document.Filename
	}
	if s.tokens != nil {
		tokens, exact := s.tokens.Count(text)
		rec.Tokens = tokens
		rec.TokensEstimated = !exact
	}
	if err := s.ledger.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("ledger write failed", "id", rec.ID, "error", err)
	}
}

func (s *service) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s.ledger == nil {
		return []Record{}, nil
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	records, err := s.ledger.Recent(ctx, limit)
	if err != nil {
		if apperrors.CodeOf(err) == "" {
			err = apperrors.Wrap(apperrors.CodeStorage, "failed to list analyses", err)
		}
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
