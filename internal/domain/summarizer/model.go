package summarizer

import "context"

const (
	DefaultMaxLength = 200

	// Inputs with fewer words than directThreshold are summarized in one call.
	directThreshold = 800
	chunkWords      = 700
	chunkMaxLength  = 120
	chunkMinLength  = 30
	directMinLength = 30
	reduceMinLength = 50
)

// Config configures the summarizer.
type Config struct {
	MaxLength int
}

// Params are the generation parameters sent with every model call.
type Params struct {
	MaxLength  int  `json:"max_length"`
	MinLength  int  `json:"min_length"`
	Truncation bool `json:"truncation"`
}

// Candidate is one generated summary, best first.
type Candidate struct {
	Text string `json:"summary_text"`
}

// Model is the abstractive summarization capability.
type Model interface {
	Summarize(ctx context.Context, text string, params Params) ([]Candidate, error)
}
