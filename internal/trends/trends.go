package trends

import (
	"sort"
	"sync"
	"time"
)

// Counter is the running frequency record for one (keyword, category) pair.
// Created on first observation, incremented on every later one, never deleted
// by this engine; retention is the surrounding service's concern.
type Counter struct {
	Keyword   string
	Category  string
	Frequency int64
	FirstSeen time.Time
	LastSeen  time.Time
}

// Store persists trend counters. Upsert must be atomic per (keyword, category)
// key: concurrent increments of the same pair must not lose updates.
type Store interface {
	Upsert(keyword, category string, seen time.Time) error
	TopKeywords(category string, limit int) ([]Counter, error)
	Close() error
}

type counterKey struct {
	keyword  string
	category string
}

// MemoryStore keeps counters in a mutex-guarded map. It is the default when
// no database is configured and the fixture for concurrency tests.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[counterKey]*Counter
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[counterKey]*Counter)}
}

func (s *MemoryStore) Upsert(keyword, category string, seen time.Time) error {
	key := counterKey{keyword: keyword, category: category}
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.counters[key]; ok {
		c.Frequency++
		c.LastSeen = seen
		return nil
	}
	s.counters[key] = &Counter{
		Keyword:   keyword,
		Category:  category,
		Frequency: 1,
		FirstSeen: seen,
		LastSeen:  seen,
	}
	return nil
}

func (s *MemoryStore) TopKeywords(category string, limit int) ([]Counter, error) {
	s.mu.Lock()
	out := make([]Counter, 0, len(s.counters))
	for _, c := range s.counters {
		if c.Category == category {
			out = append(out, *c)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency == out[j].Frequency {
			return out[i].LastSeen.After(out[j].LastSeen)
		}
		return out[i].Frequency > out[j].Frequency
	})
	if limit <= 0 {
		limit = 10
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
