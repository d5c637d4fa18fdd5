package usage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// CountEvents counts the account's actions recorded at or after since.
func (s *MemoryStore) CountEvents(ctx context.Context, accountID, action string, since time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.events {
		if e.AccountID == accountID && e.Action == action && !e.OccurredAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// RecordEvent appends one activity row.
func (s *MemoryStore) RecordEvent(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

var _ Store = (*MemoryStore)(nil)
