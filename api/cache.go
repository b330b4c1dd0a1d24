package api

import "context"

/*
Cache defines the PUBLIC API of the task cache.
This is a contract that guarantees certain behaviors, without exposing internals.
Ordering, expiration, eviction and logging are hidden behind this interface.
*/
type Cache interface {

	/*
		Get retrieves the value associated with the given key.

		BEHAVIOR:
		-------------------
		1. Waits until every operation submitted before it has been applied.
		2. If the key exists and is NOT expired: returns (value, true, nil).
		3. If the key does NOT exist or is expired: returns (nil, false, nil).
		   An expired entry is not deleted by the read.
	*/
	Get(ctx context.Context, key string) (any, bool, error)

	/*
		Set stores a key-value pair and returns the stored value.

		BEHAVIOR:
		---------
		- Applied after every operation submitted before it
		- Stamps a fresh creation time (a re-set restarts the TTL)
		- If the cache is full and the key is new, evicts the
		  oldest inserted key first
		- Overwriting a key keeps its insertion position
	*/
	Set(ctx context.Context, key string, value any) (any, error)

	// Update is an alias for Set.
	Update(ctx context.Context, key string, value any) (any, error)

	/*
		Clear deletes a key from the cache.

		This operation is idempotent:
		- Removing a non-existing key is safe
	*/
	Clear(ctx context.Context, key string) error

	// ClearAll deletes every key.
	ClearAll(ctx context.Context) error

	/*
		Has reports whether the key holds a live entry.

		IMPORTANT:
		----------
		Has is NOT ordered with the other operations. It reads the state
		as of the last applied operation and may miss queued writes.
	*/
	Has(key string) bool

	/*
		Close gracefully shuts down the cache.

		BEHAVIOR:
		---------
		- Finishes operations already submitted
		- Stops the background worker
		- Rejects later ordered operations
	*/
	Close() error
}
