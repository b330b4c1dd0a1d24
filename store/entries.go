package store

import (
	"sync/atomic"

	"github.com/krisalay/taskcache/types"
)

/*
entryMap holds the key → entry data. It is a copy-on-write map:
- Readers always see an immutable snapshot
- The single writer (the serializer worker) builds a NEW map per change
- The new map replaces the old one atomically

Has and Len read it from arbitrary goroutines without joining the operation
queue, so they never block behind queued work and never race with it.

Every write copies the whole map, so a write costs O(len). That is cheap at
the default capacity of 100; capacities in the thousands make writes the
dominant cost.
*/
type entryMap struct {

	// data holds the current map[string]*types.CacheEntry snapshot.
	data atomic.Value

	// size tracks the number of entries in the current snapshot.
	size atomic.Int64
}

func newEntryMap() *entryMap {
	m := &entryMap{}
	m.data.Store(make(map[string]*types.CacheEntry))
	return m
}

func (m *entryMap) snapshot() map[string]*types.CacheEntry {
	return m.data.Load().(map[string]*types.CacheEntry)
}

func (m *entryMap) get(key string) (*types.CacheEntry, bool) {
	ent, ok := m.snapshot()[key]
	return ent, ok
}

/*
put copies the current map, drops every victim, adds/replaces key, and
publishes the copy in one step. Readers see either the state before the write
or the state after it, never one with a victim gone and key still missing.
*/
func (m *entryMap) put(key string, ent *types.CacheEntry, victims ...string) {
	old := m.snapshot()

	n := make(map[string]*types.CacheEntry, len(old)+1)
	for k, v := range old {
		n[k] = v
	}
	for _, v := range victims {
		delete(n, v)
	}
	n[key] = ent

	m.publish(n)
}

// delete reports whether key was present.
func (m *entryMap) delete(key string) bool {
	old := m.snapshot()
	if _, ok := old[key]; !ok {
		return false
	}

	n := make(map[string]*types.CacheEntry, len(old))
	for k, v := range old {
		if k != key {
			n[k] = v
		}
	}

	m.publish(n)
	return true
}

// reset publishes an empty map and returns how many entries were dropped.
func (m *entryMap) reset() int {
	removed := len(m.snapshot())
	m.publish(make(map[string]*types.CacheEntry))
	return removed
}

func (m *entryMap) publish(n map[string]*types.CacheEntry) {
	m.data.Store(n)
	m.size.Store(int64(len(n)))
}

func (m *entryMap) len() int {
	return int(m.size.Load())
}
