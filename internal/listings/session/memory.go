package session

import (
	"context"
	"sync"
	"time"

	"aqarna-listings/internal/common/metrics"
	"aqarna-listings/internal/listings/page"
)

type memoryEntry struct {
	snap    page.Snapshot
	expires time.Time
}

// MemoryStore keeps snapshots in process. Expired entries are dropped on
// access and by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (page.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return page.Snapshot{}, ErrNotFound
	}
	if s.ttl > 0 && !s.now().Before(e.expires) {
		delete(s.entries, id)
		s.report()
		return page.Snapshot{}, ErrNotFound
	}
	return e.snap, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, snap page.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = memoryEntry{snap: snap, expires: s.now().Add(s.ttl)}
	s.report()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	s.report()
	return nil
}

// Sweep removes expired entries and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}
	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
			removed++
		}
	}
	s.report()
	return removed
}

// Len counts entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) report() {
	metrics.ActiveSessions.Set(float64(len(s.entries)))
}

// RunSweeper sweeps every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
