// This file defines how cache entries expire over time.

package expiration

import (
	"time"

	"github.com/krisalay/taskcache/types"
)

/*
Strategy is the interface that all expiration rules must follow. Instead of hard-coding
expiration logic into the store, the engine asks a strategy so the rule can be swapped in tests.
*/
type Strategy interface {

	// IsExpired checks if the entry is expired at now.
	IsExpired(*types.CacheEntry, time.Time) bool
}
