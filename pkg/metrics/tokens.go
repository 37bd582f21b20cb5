package metrics

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// TokenCounter estimates how many model tokens a document costs. The BPE
// ranks are fetched lazily; when they cannot be loaded the counter degrades
// to a whitespace word count.
type TokenCounter struct {
	encoding string

	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// NewTokenCounter constructs a counter for the named tiktoken encoding.
func NewTokenCounter(encoding string) *TokenCounter {
	if strings.TrimSpace(encoding) == "" {
		encoding = defaultEncoding
	}
	return &TokenCounter{encoding: encoding}
}

// Count returns the token count of text and whether it came from the BPE
// encoder (false means the word-count fallback was used).
func (c *TokenCounter) Count(text string) (int, bool) {
	if text == "" {
		return 0, true
	}
	if c == nil {
		return len(strings.Fields(text)), false
	}
	c.once.Do(func() {
		c.enc, c.err = tiktoken.GetEncoding(c.encoding)
	})
	if c.err != nil || c.enc == nil {
		return len(strings.Fields(text)), false
	}
	return len(c.enc.Encode(text, nil, nil)), true
}
