package ratelimit

import (
	"context"
	"sync"
	"time"
)

const DefaultSweepThreshold = 10000

type window struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps counters in process. It does not coordinate across server instances.
type MemoryStore struct {
	mu             sync.Mutex
	entries        map[string]window
	sweepThreshold int

	now func() time.Time
}

func NewMemoryStore(sweepThreshold int) *MemoryStore {
	if sweepThreshold <= 0 {
		sweepThreshold = DefaultSweepThreshold
	}
	return &MemoryStore{
		entries:        make(map[string]window),
		sweepThreshold: sweepThreshold,
		now:            time.Now,
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string, rule Rule) (Result, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) > s.sweepThreshold {
		s.sweep(now)
	}

	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		s.entries[key] = window{count: 1, resetAt: now.Add(rule.Window)}
		return Result{Allowed: true, Remaining: rule.Limit - 1}, nil
	}

	if e.count >= rule.Limit {
		return Result{Allowed: false, RetryAfterSeconds: retryAfterSeconds(e.resetAt.Sub(now))}, nil
	}

	e.count++
	s.entries[key] = e

	return Result{Allowed: true, Remaining: rule.Limit - e.count}, nil
}

// sweep drops expired windows. Caller holds mu.
func (s *MemoryStore) sweep(now time.Time) {
	for k, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, k)
		}
	}
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
