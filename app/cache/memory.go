package cache

import (
	"context"
	"time"

	expirable "github.com/go-pkgz/expirable-cache/v2"
)

// Memory is an in-process Store, bounded by the number of keys.
type Memory struct {
	c expirable.Cache[string, []byte]
}

// NewMemory makes a new Memory store that keeps at most maxKeys entries,
// evicting the least recently used ones.
func NewMemory(maxKeys int) *Memory {
	return &Memory{c: expirable.NewCache[string, []byte]().WithMaxKeys(maxKeys).WithLRU()}
}

// Get returns the value stored by key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	return v, ok, nil
}

// Set stores the value by key for ttl.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.c.Set(key, value, ttl)
	return nil
}

// Stat returns cache stats.
func (m *Memory) Stat() expirable.Stats { return m.c.Stat() }
