package expiration

import (
	"time"

	"github.com/krisalay/taskcache/types"
)

/*
ExpireAfterWrite gives every entry the same fixed lifetime, measured from the
moment it was written. Reads never extend it; only a new Set does, because a
new Set creates a new entry.
*/
type ExpireAfterWrite struct {

	// TTL applies uniformly to all entries.
	TTL time.Duration
}

// IsExpired checks whether the entry has outlived TTL at this moment.
func (e *ExpireAfterWrite) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return ent.IsExpired(e.TTL, now)
}
