package engine

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/krisalay/taskcache/expiration"
	"github.com/krisalay/taskcache/logging"
	"github.com/krisalay/taskcache/types"
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.
This acts as the policy layer.

It decides:
- When data is expired
- What "now" means
- How cache events are reported (metrics + diagnostic log)

It does NOT:
- Store data
- Decide eviction order
- Order operations
*/
type CacheEngine struct {

	// Expiration controls when a cache entry should be considered “too old”.
	// If this is nil, entries never expire based on time.
	Expiration expiration.Strategy

	// Metrics is how we keep track of what the cache is doing.
	Metrics types.Metrics

	// Logger receives the diagnostic stream: misses, sets, evictions.
	Logger logrus.FieldLogger

	// Clock returns the current time. Tests replace it to move time without sleeping.
	Clock func() time.Time
}

/*
NewCacheEngine creates a CacheEngine.
Nil metrics and logger are replaced with no-op implementations.
*/
func NewCacheEngine(
	exp expiration.Strategy,
	metrics types.Metrics,
	logger logrus.FieldLogger,
) *CacheEngine {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &CacheEngine{
		Expiration: exp,
		Metrics:    metrics,
		Logger:     logger,
		Clock:      time.Now,
	}
}

// Now returns the engine's notion of the current time.
func (e *CacheEngine) Now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock()
}

/*
IsExpired checks whether a cache entry is expired.
Returns false if no expiration strategy is configured.
*/
func (e *CacheEngine) IsExpired(ent *types.CacheEntry) bool {
	return e.Expiration != nil &&
		e.Expiration.IsExpired(ent, e.Now())
}

// OnHit is called when a read returns a live entry.
func (e *CacheEngine) OnHit(key string) {
	e.Metrics.Hit()
	e.Logger.WithField("key", key).Debug("cache hit")
}

// OnMiss is called when a read finds nothing usable. expired tells the two cases apart.
func (e *CacheEngine) OnMiss(key string, expired bool) {
	if expired {
		e.Metrics.Expire()
	} else {
		e.Metrics.Miss()
	}
	e.Logger.WithFields(logrus.Fields{
		"key":     key,
		"expired": expired,
	}).Debug("cache miss or expired")
}

// OnWrite is called after an entry has been stored.
func (e *CacheEngine) OnWrite(ent *types.CacheEntry) {
	e.Metrics.Set()
	e.Logger.WithField("key", ent.Key).Debug("cache set")
}

// OnEvict is called after the capacity bound pushed key out.
func (e *CacheEngine) OnEvict(key string) {
	e.Metrics.Eviction()
	e.Logger.WithField("key", key).Debug("cache evicted oldest entry")
}

// OnClear is called after Clear or ClearAll. removed is the number of entries dropped.
func (e *CacheEngine) OnClear(key string, removed int) {
	e.Metrics.Clear()
	fields := logrus.Fields{"removed": removed}
	if key != "" {
		fields["key"] = key
	}
	e.Logger.WithFields(fields).Debug("cache cleared")
}
