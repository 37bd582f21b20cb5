package huggingface

import (
	"context"
	"sort"

	"github.com/yanqian/legal-assistant/internal/domain/risk"
	"github.com/yanqian/legal-assistant/internal/domain/summarizer"
)

// SummarizationModel binds a summarization model id to the client.
type SummarizationModel struct {
	client *Client
	model  string
}

// NewSummarizationModel adapts the client to summarizer.Model.
func NewSummarizationModel(client *Client, model string) *SummarizationModel {
	return &SummarizationModel{client: client, model: model}
}

// Name returns the model id.
func (m *SummarizationModel) Name() string { return m.model }

// Summarize implements summarizer.Model.
func (m *SummarizationModel) Summarize(ctx context.Context, text string, params summarizer.Params) ([]summarizer.Candidate, error) {
	out, err := m.client.Summarize(ctx, m.model, text, SummaryParams{
		MaxLength:  params.MaxLength,
		MinLength:  params.MinLength,
		Truncation: params.Truncation,
	})
	if err != nil {
		return nil, err
	}
	candidates := make([]summarizer.Candidate, 0, len(out))
	for _, item := range out {
		candidates = append(candidates, summarizer.Candidate{Text: item.SummaryText})
	}
	return candidates, nil
}

// NLIClassifier binds an NLI model id to the client.
type NLIClassifier struct {
	client *Client
	model  string
}

// NewNLIClassifier adapts the client to risk.Classifier.
func NewNLIClassifier(client *Client, model string) *NLIClassifier {
	return &NLIClassifier{client: client, model: model}
}

// Name returns the model id.
func (m *NLIClassifier) Name() string { return m.model }

// Classify implements risk.Classifier. Labels are sorted by score so the
// first entry is always the top prediction.
func (m *NLIClassifier) Classify(ctx context.Context, premise, hypothesis string) ([]risk.Label, error) {
	out, err := m.client.Classify(ctx, m.model, premise, hypothesis)
	if err != nil {
		return nil, err
	}
	labels := make([]risk.Label, 0, len(out))
	for _, item := range out {
		labels = append(labels, risk.Label{Label: item.Label, Score: item.Score})
	}
	sort.SliceStable(labels, func(i, j int) bool { return labels[i].Score > labels[j].Score })
	return labels, nil
}

var (
	_ summarizer.Model = (*SummarizationModel)(nil)
	_ risk.Classifier  = (*NLIClassifier)(nil)
)
