// internal/store/memory.go
//
// In-memory implementation of Cache.
//
// Characteristics:
//   - Concurrency-safe via RWMutex, but expiry on Read takes the write lock.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	version  string
	storedAt time.Time
	words    []string
}

// Memory is a process-local Cache.
type Memory struct {
	mu     sync.RWMutex // guards e
	e      *entry
	policy Policy
}

// NewMemory constructs an empty in-memory cache.
func NewMemory(p Policy) *Memory {
	return &Memory{policy: p.withDefaults()}
}

// Read serves the entry when it is fresh and drops it otherwise.
func (m *Memory) Read(ctx context.Context) ([]string, bool, error) {
	m.mu.RLock()
	e := m.e
	m.mu.RUnlock()
	if e == nil {
		return nil, false, nil
	}
	if !m.policy.fresh(e.version, e.storedAt) {
		m.mu.Lock()
		if m.e == e {
			m.e = nil
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return append([]string(nil), e.words...), true, nil
}

// Write replaces the entry.
func (m *Memory) Write(ctx context.Context, words []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.e = &entry{
		version:  m.policy.Version,
		storedAt: m.policy.Now(),
		words:    append([]string(nil), words...),
	}
	return nil
}

// Invalidate drops the entry.
func (m *Memory) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.e = nil
	return nil
}
