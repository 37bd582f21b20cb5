// Package segmenter splits extracted contract text into clause candidates.
//
// The heuristic is paragraph based: blank lines delimit clauses and anything
// at or under the length floor is discarded, headings included.
package segmenter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	DefaultMaxClauses     = 20
	DefaultMinClauseChars = 40
)

var (
	blankRun     = regexp.MustCompile(`\n{2,}`)
	paragraphGap = regexp.MustCompile(`\n\s*\n`)
)

// Config bounds the segmentation output.
type Config struct {
	MaxClauses     int
	MinClauseChars int
}

// Segmenter turns text into an ordered list of clauses.
type Segmenter struct {
	maxClauses     int
	minClauseChars int
}

// New constructs a Segmenter; non-positive values fall back to the defaults.
func New(cfg Config) *Segmenter {
	if cfg.MaxClauses <= 0 {
		cfg.MaxClauses = DefaultMaxClauses
	}
	if cfg.MinClauseChars <= 0 {
		cfg.MinClauseChars = DefaultMinClauseChars
	}
	return &Segmenter{maxClauses: cfg.MaxClauses, minClauseChars: cfg.MinClauseChars}
}

// Segment returns at most MaxClauses paragraphs longer than MinClauseChars,
// in document order. The result is never nil.
func (s *Segmenter) Segment(text string) []string {
	clauses := make([]string, 0)
	for _, para := range Paragraphs(text) {
		if utf8.RuneCountInString(para) > s.minClauseChars {
			clauses = append(clauses, para)
		}
		if len(clauses) >= s.maxClauses {
			break
		}
	}
	return clauses
}

// Paragraphs normalizes paragraph breaks and returns the trimmed, non-empty
// paragraphs of text.
func Paragraphs(text string) []string {
	parts := paragraphGap.Split(NormalizeBreaks(text), -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// NormalizeBreaks collapses every run of two or more newlines into exactly
// two. It is idempotent.
func NormalizeBreaks(text string) string {
	return blankRun.ReplaceAllString(text, "\n\n")
}
