package risk

import (
	"context"
	"fmt"
)

const (
	DefaultThreshold    = 0.6
	DefaultExcerptChars = 200
)

var hypotheses = [...]string{
	"This clause allows termination without notice.",
	"This clause removes or limits liability.",
	"This clause allows automatic renewal.",
	"This clause allows unilateral amendment.",
}

// Hypotheses returns a copy of the risk statements in evaluation order.
func Hypotheses() []string {
	out := make([]string, len(hypotheses))
	copy(out, hypotheses[:])
	return out
}

// Config tunes the entailment policy. Threshold is used as given, so a zero
// threshold accepts any entailment label.
type Config struct {
	Threshold    float64
	ExcerptChars int
}

// DefaultConfig returns the stock policy: scores above 0.6, 200 rune excerpts.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold, ExcerptChars: DefaultExcerptChars}
}

// Label is one class predicted by the NLI model, best first.
type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier is the natural language inference capability.
type Classifier interface {
	Classify(ctx context.Context, premise, hypothesis string) ([]Label, error)
}

// Verdict is the outcome of classifying one clause against one hypothesis.
type Verdict struct {
	Clause     string
	Hypothesis string
	Label      string
	Score      float64
	Err        error
}

// Finding is a verdict that passed the entailment policy.
type Finding struct {
	Hypothesis string
	Clause     string
	Label      string
	Score      float64
}

// Render formats the finding as "hypothesis → excerpt...".
func (f Finding) Render(excerptChars int) string {
	return fmt.Sprintf("%s → %s...", f.Hypothesis, excerpt(f.Clause, excerptChars))
}

func excerpt(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
