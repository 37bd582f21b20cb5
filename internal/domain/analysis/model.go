package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/legal-assistant/internal/domain/extractor"
)

const (
	SourceText     = "text"
	SourceDocument = "document"

	DefaultRecentLimit = 20
	MaxRecentLimit     = 200
)

// Config carries the model identifiers recorded in the ledger.
type Config struct {
	SummarizationModel string
	NLIModel           string
}

// Request is one analysis input. Document takes precedence over Text.
type Request struct {
	Text     string
	Document *extractor.Document
}

// Empty reports whether the request carries nothing to analyze.
func (r Request) Empty() bool {
	return r.Text == "" && r.Document == nil
}

// Result is the analysis output returned to clients.
type Result struct {
	Summary      string   `json:"summary"`
	Clauses      []string `json:"clauses"`
	FlaggedRisks []string `json:"flagged_risks"`
}

// EmptyResult has non-nil slices so it serializes as [] rather than null.
func EmptyResult() Result {
	return Result{Clauses: []string{}, FlaggedRisks: []string{}}
}

// Record is the metadata kept about a finished analysis. Document text,
// summaries and clauses are never stored.
type Record struct {
	ID                 uuid.UUID `json:"id"`
	Source             string    `json:"source"`
	Filename           string    `json:"filename,omitempty"`
	Words              int       `json:"words"`
	Tokens             int       `json:"tokens"`
	TokensEstimated    bool      `json:"tokensEstimated"`
	Clauses            int       `json:"clauses"`
	Findings           int       `json:"findings"`
	DurationMs         int64     `json:"durationMs"`
	SummarizationModel string    `json:"summarizationModel"`
	NLIModel           string    `json:"nliModel"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Ledger persists analysis records.
type Ledger interface {
	Record(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// Segmenter splits text into clauses.
type Segmenter interface {
	Segment(text string) []string
}

// Flagger turns clauses into rendered risk findings.
type Flagger interface {
	Flag(ctx context.Context, clauses []string) []string
}

// TokenCounter estimates the model token cost of a text.
type TokenCounter interface {
	Count(text string) (int, bool)
}
