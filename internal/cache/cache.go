// Package cache stores aggregated search results keyed by the canonical query.
package cache

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/timeutil"
)

// Default cache settings.
const (
	DefaultTTL    = time.Hour
	DefaultShards = 16
)

type entry struct {
	results   *domain.AggregatedResults
	expiresAt time.Time
}

type shard struct {
	mu    sync.RWMutex
	items map[string]entry
}

// Cache is a sharded in-memory TTL cache of search results.
// Entries expire lazily: an expired entry is treated as a miss on read and
// removed by Purge or by the next Put for the same key.
type Cache struct {
	ttl    time.Duration
	clock  timeutil.Clock
	shards []*shard
}

// New creates a cache. Non-positive ttl or shards fall back to the defaults;
// a nil clock uses the wall clock.
func New(ttl time.Duration, shards int, clock timeutil.Clock) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if shards <= 0 {
		shards = DefaultShards
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	c := &Cache{
		ttl:    ttl,
		clock:  clock,
		shards: make([]*shard, shards),
	}
	for i := range c.shards {
		c.shards[i] = &shard{items: make(map[string]entry)}
	}
	return c
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

// Get returns a copy of the results cached for q, if present and not expired.
func (c *Cache) Get(q domain.Query) (*domain.AggregatedResults, bool) {
	key := q.CanonicalKey()
	s := c.shardFor(key)

	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()

	if !ok || !c.clock.Now().Before(e.expiresAt) {
		return nil, false
	}
	return e.results.Clone(), true
}

// Put stores a copy of results for q.
func (c *Cache) Put(q domain.Query, results *domain.AggregatedResults) {
	if results == nil {
		return
	}
	key := q.CanonicalKey()
	s := c.shardFor(key)

	e := entry{
		results:   results.Clone(),
		expiresAt: c.clock.Now().Add(c.ttl),
	}

	s.mu.Lock()
	s.items[key] = e
	s.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Purge removes expired entries and returns how many were dropped.
func (c *Cache) Purge() int {
	now := c.clock.Now()
	removed := 0
	for _, s := range c.shards {
		s.mu.Lock()
		for k, e := range s.items {
			if !now.Before(e.expiresAt) {
				delete(s.items, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}
