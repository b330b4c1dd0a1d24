package types

import "context"

// Loader produces the value for a key that is not in the cache.
type Loader interface {

	/*
		Load is called by GetOrLoad when the cache misses.
		1. Cache checks memory → key not found or expired
		2. Cache calls Load(key), at most once per key at a time
		3. Loader computes the value (DB, API, expensive lookup)
		4. Cache stores the result through the ordered Set path
		5. Cache returns the value

		A non-nil error means nothing is cached.
	*/
	Load(ctx context.Context, key string) (any, error)
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc func(ctx context.Context, key string) (any, error)

func (f LoaderFunc) Load(ctx context.Context, key string) (any, error) {
	return f(ctx, key)
}
