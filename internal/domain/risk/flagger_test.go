package risk

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	termClause    = "Term: This Agreement may be terminated immediately without notice."
	paymentClause = "Payment: Invoices are due within thirty days of receipt by the Customer."
)

type stubClassifier struct {
	calls    int
	classify func(premise, hypothesis string) ([]Label, error)
}

func (s *stubClassifier) Classify(_ context.Context, premise, hypothesis string) ([]Label, error) {
	s.calls++
	return s.classify(premise, hypothesis)
}

func entailIf(match func(premise, hypothesis string) bool) func(string, string) ([]Label, error) {
	return func(premise, hypothesis string) ([]Label, error) {
		if match(premise, hypothesis) {
			return []Label{{Label: "ENTAILMENT", Score: 0.91}, {Label: "NEUTRAL", Score: 0.07}}, nil
		}
		return []Label{{Label: "NEUTRAL", Score: 0.8}}, nil
	}
}

func TestFlagTermPaymentScenario(t *testing.T) {
	t.Parallel()
	classifier := &stubClassifier{classify: entailIf(func(premise, hypothesis string) bool {
		return strings.HasPrefix(premise, "Term:") && hypothesis == hypotheses[0]
	})}
	flagger := NewFlagger(DefaultConfig(), classifier, testLogger())

	got := flagger.Flag(context.Background(), []string{termClause, paymentClause})
	require.Len(t, got, 1)
	require.True(t, strings.HasPrefix(got[0], "This clause allows termination without notice. → Term: This Agreement"))
	require.True(t, strings.HasSuffix(got[0], "..."))
	require.Equal(t, 8, classifier.calls)
}

func TestFlagPolicy(t *testing.T) {
	tests := []struct {
		name   string
		labels []Label
		err    error
		want   int
	}{
		{name: "entailment above threshold", labels: []Label{{Label: "ENTAILMENT", Score: 0.61}}, want: 4},
		{name: "lowercase label", labels: []Label{{Label: "entailment", Score: 0.9}}, want: 4},
		{name: "score at threshold", labels: []Label{{Label: "ENTAILMENT", Score: 0.6}}},
		{name: "contradiction", labels: []Label{{Label: "CONTRADICTION", Score: 0.99}}},
		{name: "only top label counts", labels: []Label{{Label: "NEUTRAL", Score: 0.5}, {Label: "ENTAILMENT", Score: 0.9}}},
		{name: "empty labels", labels: []Label{}},
		{name: "classifier error", err: errors.New("model unavailable")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			classifier := &stubClassifier{classify: func(string, string) ([]Label, error) {
				return tt.labels, tt.err
			}}
			got := NewFlagger(DefaultConfig(), classifier, testLogger()).Flag(context.Background(), []string{termClause})
			require.NotNil(t, got)
			require.Len(t, got, tt.want)
		})
	}
}

func TestFlagDeduplicatesInOrder(t *testing.T) {
	t.Parallel()
	prefix := strings.Repeat("x", 200)
	clauses := []string{prefix + " first tail", prefix + " second tail", termClause}
	classifier := &stubClassifier{classify: entailIf(func(_, hypothesis string) bool {
		return hypothesis == hypotheses[1] || hypothesis == hypotheses[0]
	})}

	got := NewFlagger(DefaultConfig(), classifier, testLogger()).Flag(context.Background(), clauses)
	require.Equal(t, []string{
		hypotheses[0] + " → " + prefix + "...",
		hypotheses[1] + " → " + prefix + "...",
		hypotheses[0] + " → " + termClause + "...",
		hypotheses[1] + " → " + termClause + "...",
	}, got)
}

func TestFlagSkipsFailedPairs(t *testing.T) {
	t.Parallel()
	classifier := &stubClassifier{classify: func(premise, hypothesis string) ([]Label, error) {
		if hypothesis == hypotheses[0] {
			return nil, errors.New("timeout")
		}
		return []Label{{Label: "ENTAILMENT", Score: 0.95}}, nil
	}}
	flagger := NewFlagger(DefaultConfig(), classifier, testLogger())

	verdicts := flagger.Evaluate(context.Background(), []string{termClause})
	require.Len(t, verdicts, 4)
	require.Error(t, verdicts[0].Err)
	for i, v := range verdicts {
		require.Equal(t, hypotheses[i], v.Hypothesis)
		require.Equal(t, termClause, v.Clause)
	}

	got := flagger.Flag(context.Background(), []string{termClause})
	require.Len(t, got, 3)
	require.NotContains(t, strings.Join(got, "\n"), hypotheses[0])
}

func TestFlagCustomThresholdAndExcerpt(t *testing.T) {
	t.Parallel()
	classifier := &stubClassifier{classify: func(string, string) ([]Label, error) {
		return []Label{{Label: "ENTAILMENT", Score: 0.7}}, nil
	}}

	strict := NewFlagger(Config{Threshold: 0.8}, classifier, testLogger())
	require.Empty(t, strict.Flag(context.Background(), []string{termClause}))

	short := NewFlagger(Config{Threshold: DefaultThreshold, ExcerptChars: 4}, classifier, testLogger())
	got := short.Flag(context.Background(), []string{"Térm clause body"})
	require.Equal(t, hypotheses[0]+" → Térm...", got[0])
}

func TestFlagZeroThresholdIsHonoured(t *testing.T) {
	t.Parallel()
	classifier := &stubClassifier{classify: func(_ string, hypothesis string) ([]Label, error) {
		if hypothesis == hypotheses[1] {
			return []Label{{Label: "CONTRADICTION", Score: 0.9}}, nil
		}
		return []Label{{Label: "ENTAILMENT", Score: 0.3}}, nil
	}}

	got := NewFlagger(Config{Threshold: 0, ExcerptChars: DefaultExcerptChars}, classifier, testLogger()).
		Flag(context.Background(), []string{termClause})
	require.Len(t, got, 3)
	require.NotContains(t, strings.Join(got, "\n"), hypotheses[1])

	none := NewFlagger(DefaultConfig(), classifier, testLogger()).Flag(context.Background(), []string{termClause})
	require.Empty(t, none)
}

func TestFlagNoClauses(t *testing.T) {
	t.Parallel()
	classifier := &stubClassifier{}
	got := NewFlagger(DefaultConfig(), classifier, testLogger()).Flag(context.Background(), nil)
	require.NotNil(t, got)
	require.Empty(t, got)
	require.Zero(t, classifier.calls)
}

func TestHypothesesReturnsCopy(t *testing.T) {
	t.Parallel()
	hs := Hypotheses()
	require.Len(t, hs, 4)
	require.Equal(t, "This clause allows termination without notice.", hs[0])
	hs[0] = "mutated"
	require.Equal(t, "This clause allows termination without notice.", Hypotheses()[0])
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
