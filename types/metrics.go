package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when Get finds a live entry.
	Hit()

	// Miss is called when Get finds no entry for the key.
	Miss()

	// Expire is called when Get finds an entry that is past its TTL.
	// The entry stays in memory; it is only treated as absent.
	Expire()

	// Eviction is called when a key is removed because the cache is full and needs space.
	Eviction()

	// Set is called after an entry is written.
	Set()

	// Clear is called for every Clear and ClearAll.
	Clear()

	// Failure is called when a serialized operation returns an error or panics.
	Failure()

	// QueueDepth reports how many submitted operations have not settled yet.
	QueueDepth(int)
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

If someone does not care about metrics, the cache still works without
nil checks everywhere: it falls back to this type.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()           {}
func (NoopMetrics) Miss()          {}
func (NoopMetrics) Expire()        {}
func (NoopMetrics) Eviction()      {}
func (NoopMetrics) Set()           {}
func (NoopMetrics) Clear()         {}
func (NoopMetrics) Failure()       {}
func (NoopMetrics) QueueDepth(int) {}
