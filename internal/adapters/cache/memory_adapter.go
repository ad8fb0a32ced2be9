package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/zatekoja/doctorfinder/internal/domain/providers"
)

// MemoryAdapter implements the CacheProvider interface with a bounded,
// expiring LRU. Every entry lives for the adapter's TTL; the per-call
// expiration is ignored.
type MemoryAdapter struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryAdapter creates an in-process cache holding at most capacity entries
func NewMemoryAdapter(capacity int, ttl time.Duration) providers.CacheProvider {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryAdapter{
		lru: expirable.NewLRU[string, []byte](capacity, nil, ttl),
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := a.lru.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", providers.ErrCacheMiss, key)
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a copy of value
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, _ int) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	a.lru.Add(key, stored)
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.lru.Remove(key)
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(_ context.Context, key string) (bool, error) {
	return a.lru.Contains(key), nil
}
