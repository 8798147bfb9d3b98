package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// RateLimitMemoryStore implements ratelimit.Store with per-key timestamp
// slices. Single-process only; the Redis store covers multi-instance runs.
type RateLimitMemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		windows: make(map[string][]time.Time),
	}
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	// Timestamps are appended in order, so the expired entries form a prefix.
	ts := s.windows[key]
	first := sort.Search(len(ts), func(i int) bool { return ts[i].After(cutoff) })

	ts = append(ts[first:], now)
	s.windows[key] = ts

	return int64(len(ts)), nil
}
