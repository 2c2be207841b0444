package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/errand/pkg/domain"
)

// Journal implements ports.Journal in memory. Used when no journal file is configured.
type Journal struct {
	mu      sync.RWMutex
	records []domain.Record
}

// NewJournal creates an empty in-memory journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Append stores a record.
func (j *Journal) Append(ctx context.Context, record domain.Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, record)
	return nil
}

// Recent returns up to limit records for errand (all when empty), newest first.
func (j *Journal) Recent(ctx context.Context, errand string, limit int) ([]domain.Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]domain.Record, 0, len(j.records))
	for _, r := range j.records {
		if errand == "" || r.Errand == errand {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].StartedAt.After(out[b].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
