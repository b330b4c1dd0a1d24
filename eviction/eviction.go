package eviction

/*
This file defines how the store decides what to remove when it runs out of space.
*/

/*
Policy is the interface an eviction strategy must follow.

The store does NOT care how eviction works internally.
It only calls these methods, and only from the serializer worker,
so implementations need no locking.
*/
type Policy interface {

	// OnPut is called whenever a key is written to the store.
	//
	// Writing a key that is already tracked must not change its position.
	OnPut(string)

	// Remove is called when a key is explicitly removed
	// from the store (not evicted).
	Remove(string)

	// Evict is called when the store is FULL and a new key arrives.
	//
	// It returns the key that should be evicted and stops tracking it.
	// ok is false when nothing is tracked.
	Evict() (key string, ok bool)

	// Reset forgets every tracked key.
	Reset()

	// Keys returns the tracked keys, next victim first.
	Keys() []string

	// Len returns how many keys are tracked.
	Len() int
}
