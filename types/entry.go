package types

import "time"

// CacheEntry is the value holder stored for a key.
// It is never mutated after insertion; a second Set for the same key
// replaces the whole entry with a fresh CreatedAt.
type CacheEntry struct {
	Key       string
	Value     any
	CreatedAt time.Time
}

// NewCacheEntry stamps value with the insertion time.
func NewCacheEntry(key string, value any, now time.Time) *CacheEntry {
	return &CacheEntry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
	}
}

// IsExpired reports whether more than ttl has elapsed since the entry was created.
// An entry exactly ttl old is still live.
func (e *CacheEntry) IsExpired(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.CreatedAt) > ttl
}
