package risk

import (
	"context"
	"log/slog"
	"strings"
)

// Flagger scores clauses against the fixed risk hypotheses.
type Flagger struct {
	cfg        Config
	classifier Classifier
	logger     *slog.Logger
}

// NewFlagger is a wire provider for the risk domain.
func NewFlagger(cfg Config, classifier Classifier, logger *slog.Logger) *Flagger {
	if cfg.ExcerptChars <= 0 {
		cfg.ExcerptChars = DefaultExcerptChars
	}
	return &Flagger{cfg: cfg, classifier: classifier, logger: logger.With("component", "risk.flagger")}
}

// Evaluate classifies every clause against every hypothesis. Verdicts are
// ordered clause first, then hypothesis.
func (f *Flagger) Evaluate(ctx context.Context, clauses []string) []Verdict {
	verdicts := make([]Verdict, 0, len(clauses)*len(hypotheses))
	for _, clause := range clauses {
		for _, hypothesis := range hypotheses {
			v := Verdict{Clause: clause, Hypothesis: hypothesis}
			labels, err := f.classifier.Classify(ctx, clause, hypothesis)
			switch {
			case err != nil:
				v.Err = err
			case len(labels) == 0:
				v.Err = errNoLabels
			default:
				v.Label = labels[0].Label
				v.Score = labels[0].Score
			}
			verdicts = append(verdicts, v)
		}
	}
	return verdicts
}

// Flag returns the rendered findings, deduplicated in first-seen order.
// Failed pairs are skipped, so Flag never fails.
func (f *Flagger) Flag(ctx context.Context, clauses []string) []string {
	verdicts := f.Evaluate(ctx, clauses)
	flagged := make([]string, 0)
	seen := make(map[string]struct{})
	skipped := 0
	for _, v := range verdicts {
		if v.Err != nil {
			skipped++
			f.logger.Debug("nli pair skipped", "hypothesis", v.Hypothesis, "error", v.Err)
			continue
		}
		if !f.Entails(v) {
			continue
		}
		rendered := Finding{Hypothesis: v.Hypothesis, Clause: v.Clause, Label: v.Label, Score: v.Score}.Render(f.cfg.ExcerptChars)
		if _, dup := seen[rendered]; dup {
			continue
		}
		seen[rendered] = struct{}{}
		flagged = append(flagged, rendered)
	}
	if skipped > 0 {
		f.logger.Debug("nli pairs skipped", "skipped", skipped, "total", len(verdicts))
	}
	return flagged
}

// Entails reports whether a successful verdict counts as a finding.
func (f *Flagger) Entails(v Verdict) bool {
	return v.Err == nil && strings.Contains(strings.ToUpper(v.Label), "ENTAIL") && v.Score > f.cfg.Threshold
}
