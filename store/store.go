// Package store is the leaf of the cache: an expiring, capacity-bounded
// key → entry map with oldest-inserted-first eviction.
//
// Get, Set, Update, Clear, ClearAll and Keys mutate or walk writer-side state
// and must only be called from one goroutine at a time; the serializer
// guarantees that. Has and Len read a published snapshot and are safe from
// any goroutine.
package store

import (
	"github.com/krisalay/taskcache/engine"
	"github.com/krisalay/taskcache/eviction"
	"github.com/krisalay/taskcache/types"
)

// Store holds the cache entries.
type Store struct {
	entries  *entryMap
	order    eviction.Policy
	engine   *engine.CacheEngine
	capacity int
}

// New creates a store bounded to capacity entries. capacity must be positive.
func New(capacity int, eng *engine.CacheEngine) *Store {
	if capacity <= 0 {
		panic("store: capacity must be positive")
	}
	if eng == nil {
		eng = engine.NewCacheEngine(nil, nil, nil)
	}
	return &Store{
		entries:  newEntryMap(),
		order:    eviction.NewFIFO(),
		engine:   eng,
		capacity: capacity,
	}
}

// Capacity returns the configured maximum entry count.
func (s *Store) Capacity() int {
	return s.capacity
}

// Get returns the value for key. An expired entry reads as absent but is left
// in place; the next read performs the same check again.
func (s *Store) Get(key string) (any, bool) {
	ent, ok := s.entries.get(key)
	if !ok {
		s.engine.OnMiss(key, false)
		return nil, false
	}
	if s.engine.IsExpired(ent) {
		s.engine.OnMiss(key, true)
		return nil, false
	}
	s.engine.OnHit(key)
	return ent.Value, true
}

/*
Set stores value under key and returns it.

If the store is full and key is new, exactly one entry is evicted first:
the oldest inserted key still present. Overwriting an existing key creates a
new entry with a fresh timestamp but keeps the key's insertion position.
*/
func (s *Store) Set(key string, value any) any {
	var victims []string
	if _, present := s.entries.get(key); !present && s.entries.len() >= s.capacity {
		if victim, ok := s.order.Evict(); ok {
			victims = append(victims, victim)
		}
	}

	ent := types.NewCacheEntry(key, value, s.engine.Now())
	s.entries.put(key, ent, victims...)
	s.order.OnPut(key)

	for _, victim := range victims {
		s.engine.OnEvict(victim)
	}
	s.engine.OnWrite(ent)

	return value
}

// Update is Set under another name.
func (s *Store) Update(key string, value any) any {
	return s.Set(key, value)
}

// Clear removes key if present.
func (s *Store) Clear(key string) {
	removed := 0
	if s.entries.delete(key) {
		removed = 1
	}
	s.order.Remove(key)
	s.engine.OnClear(key, removed)
}

// ClearAll removes every entry.
func (s *Store) ClearAll() {
	removed := s.entries.reset()
	s.order.Reset()
	s.engine.OnClear("", removed)
}

// Keys returns the present keys, oldest inserted first. Expired entries that
// have not been removed are included.
func (s *Store) Keys() []string {
	return s.order.Keys()
}

// Has reports whether key holds a live entry. It reads the latest published
// snapshot and does not wait for any in-flight operation.
func (s *Store) Has(key string) bool {
	ent, ok := s.entries.get(key)
	return ok && !s.engine.IsExpired(ent)
}

// Len returns the number of stored entries, expired ones included.
func (s *Store) Len() int {
	return s.entries.len()
}
