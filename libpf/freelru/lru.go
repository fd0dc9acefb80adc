// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package freelru is a wrapper around go-freelru.LRU with additional statistics embedded and can
// be used as a drop in replacement.
package freelru // import "go.opentelemetry.io/jitprofiling/libpf/freelru"

import (
	"sync/atomic"

	lru "github.com/elastic/go-freelru"
)

// LRU is a wrapper around go-freelru.LRU with additional statistics embedded.
// Like the wrapped type it is not safe for concurrent use.
type LRU[K comparable, V any] struct {
	lru lru.LRU[K, V]

	hit     atomic.Uint64
	miss    atomic.Uint64
	added   atomic.Uint64
	deleted atomic.Uint64
}

// Statistics holds the counters accumulated since the last reset.
type Statistics struct {
	Hit     uint64
	Miss    uint64
	Added   uint64
	Deleted uint64
}

func New[K comparable, V any](capacity uint32, hash lru.HashKeyCallback[K]) (*LRU[K, V], error) {
	cache, err := lru.New[K, V](capacity, hash)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{
		lru: *cache,
	}, nil
}

func (c *LRU[K, V]) Add(key K, value V) (evicted bool) {
	evicted = c.lru.Add(key, value)
	if evicted {
		c.deleted.Add(1)
	}
	c.added.Add(1)
	return evicted
}

func (c *LRU[K, V]) Get(key K) (value V, ok bool) {
	value, ok = c.lru.Get(key)
	if ok {
		c.hit.Add(1)
	} else {
		c.miss.Add(1)
	}
	return value, ok
}

func (c *LRU[K, V]) Len() int {
	return c.lru.Len()
}

// Purge drops every cached entry, counting them as deleted.
func (c *LRU[K, V]) Purge() {
	c.deleted.Add(uint64(c.lru.Len()))
	c.lru.Purge()
}

// GetAndResetStatistics returns the internal statistics for this LRU and resets all values to 0.
func (c *LRU[K, V]) GetAndResetStatistics() Statistics {
	return Statistics{
		Hit:     c.hit.Swap(0),
		Miss:    c.miss.Swap(0),
		Added:   c.added.Swap(0),
		Deleted: c.deleted.Swap(0),
	}
}
