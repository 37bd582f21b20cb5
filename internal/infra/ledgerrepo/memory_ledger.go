package ledgerrepo

import (
	"context"
	"sync"

	"github.com/yanqian/legal-assistant/internal/domain/analysis"
)

const defaultMemoryCapacity = 1000

// MemoryLedger keeps the most recent records in process memory.
type MemoryLedger struct {
	mu       sync.RWMutex
	records  []analysis.Record
	capacity int
}

// NewMemoryLedger constructs a ledger holding at most capacity records.
func NewMemoryLedger(capacity int) *MemoryLedger {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryLedger{capacity: capacity}
}

// Record implements analysis.Ledger.
func (l *MemoryLedger) Record(_ context.Context, rec analysis.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	if overflow := len(l.records) - l.capacity; overflow > 0 {
		l.records = append([]analysis.Record(nil), l.records[overflow:]...)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (l *MemoryLedger) Recent(_ context.Context, limit int) ([]analysis.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if limit <= 0 || limit > len(l.records) {
		limit = len(l.records)
	}
	out := make([]analysis.Record, 0, limit)
	for i := len(l.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}

var _ analysis.Ledger = (*MemoryLedger)(nil)
