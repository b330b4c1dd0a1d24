package cache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/krisalay/taskcache/api"
	"github.com/krisalay/taskcache/config"
	"github.com/krisalay/taskcache/engine"
	"github.com/krisalay/taskcache/expiration"
	"github.com/krisalay/taskcache/serializer"
	"github.com/krisalay/taskcache/store"
	"github.com/krisalay/taskcache/types"
)

// ErrClosed is returned by serialized calls made after Close.
var ErrClosed = serializer.ErrClosed

// Options configures New. Zero values pick the defaults from package config.
type Options struct {
	// Expiration is the TTL applied to every entry. Default 24h.
	Expiration time.Duration

	// MaxSize is the entry bound. Default 100.
	MaxSize int

	Logger  logrus.FieldLogger
	Metrics types.Metrics

	// Clock overrides time.Now for expiration checks.
	Clock func() time.Time
}

// Lookup is the result of a Get: Found is false when the key is absent or expired.
type Lookup struct {
	Value any
	Found bool
}

/*
TaskCache is the main cache implementation.
This struct is the orchestrator that connects:
- the store (entries, TTL, FIFO eviction)
- the serializer (one total order for every operation routed through it)
- the engine (expiration rule, metrics, diagnostic log)
- singleflight (one load per key for GetOrLoad)

Every method except Has and Len goes through the serializer. The *Async
variants return immediately with a future, so a caller may issue several
operations back to back without waiting and they are applied in that order.
*/
type TaskCache struct {
	store  *store.Store
	queue  *serializer.Serializer
	engine *engine.CacheEngine

	// sf prevents several goroutines from running the same loader at once.
	sf singleflight.Group
}

var _ api.Cache = (*TaskCache)(nil)

// New builds a cache and starts its operation worker. Call Close to stop it.
func New(opts Options) *TaskCache {
	cfg := config.Options{Expiration: opts.Expiration, MaxSize: opts.MaxSize}.Normalize()

	eng := engine.NewCacheEngine(
		&expiration.ExpireAfterWrite{TTL: cfg.Expiration},
		opts.Metrics,
		opts.Logger,
	)
	if opts.Clock != nil {
		eng.Clock = opts.Clock
	}

	return &TaskCache{
		store:  store.New(cfg.MaxSize, eng),
		queue:  serializer.New(eng.Logger, eng.Metrics),
		engine: eng,
	}
}

// FromConfig builds a cache from loaded configuration.
func FromConfig(cfg config.Options, logger logrus.FieldLogger, metrics types.Metrics) *TaskCache {
	return New(Options{
		Expiration: cfg.Expiration,
		MaxSize:    cfg.MaxSize,
		Logger:     logger,
		Metrics:    metrics,
	})
}

/*
GetAsync queues a read of key.
*/
func (c *TaskCache) GetAsync(ctx context.Context, key string) *serializer.Future[Lookup] {
	return serializer.Submit(c.queue, ctx, "get", func(context.Context) (Lookup, error) {
		v, ok := c.store.Get(key)
		return Lookup{Value: v, Found: ok}, nil
	})
}

/*
Get returns the value for key once every operation submitted before it has
been applied. found is false when the key is absent or expired.
*/
func (c *TaskCache) Get(ctx context.Context, key string) (value any, found bool, err error) {
	res, err := c.GetAsync(ctx, key).Wait(ctx)
	if err != nil {
		return nil, false, err
	}
	return res.Value, res.Found, nil
}

/*
SetAsync queues a write of key. When the cache is full and key is new, the
oldest inserted entry is evicted first.
*/
func (c *TaskCache) SetAsync(ctx context.Context, key string, value any) *serializer.Future[any] {
	return serializer.Submit(c.queue, ctx, "set", func(context.Context) (any, error) {
		return c.store.Set(key, value), nil
	})
}

// Set stores value under key and returns the stored value.
func (c *TaskCache) Set(ctx context.Context, key string, value any) (any, error) {
	return c.SetAsync(ctx, key, value).Wait(ctx)
}

// UpdateAsync is SetAsync.
func (c *TaskCache) UpdateAsync(ctx context.Context, key string, value any) *serializer.Future[any] {
	return c.SetAsync(ctx, key, value)
}

// Update is Set.
func (c *TaskCache) Update(ctx context.Context, key string, value any) (any, error) {
	return c.Set(ctx, key, value)
}

// ClearAsync queues removal of key.
func (c *TaskCache) ClearAsync(ctx context.Context, key string) *serializer.Future[struct{}] {
	return serializer.Submit(c.queue, ctx, "clear", func(context.Context) (struct{}, error) {
		c.store.Clear(key)
		return struct{}{}, nil
	})
}

/*
Clear removes key. Clearing an absent key is a no-op.
*/
func (c *TaskCache) Clear(ctx context.Context, key string) error {
	_, err := c.ClearAsync(ctx, key).Wait(ctx)
	return err
}

// ClearAllAsync queues removal of every entry.
func (c *TaskCache) ClearAllAsync(ctx context.Context) *serializer.Future[struct{}] {
	return serializer.Submit(c.queue, ctx, "clear_all", func(context.Context) (struct{}, error) {
		c.store.ClearAll()
		return struct{}{}, nil
	})
}

// ClearAll removes every entry.
func (c *TaskCache) ClearAll(ctx context.Context) error {
	_, err := c.ClearAllAsync(ctx).Wait(ctx)
	return err
}

/*
Has reports whether key holds a live entry right now.

Has does NOT join the operation queue: it reads the latest applied state, so
it may or may not reflect operations that are still queued or running.
Use Get when the answer must follow earlier writes.
*/
func (c *TaskCache) Has(key string) bool {
	return c.store.Has(key)
}

// Len returns the number of stored entries, expired ones included.
// Like Has, it does not wait for queued operations.
func (c *TaskCache) Len() int {
	return c.store.Len()
}

// Keys returns the stored keys, oldest inserted first, after every earlier
// operation has been applied.
func (c *TaskCache) Keys(ctx context.Context) ([]string, error) {
	return serializer.Submit(c.queue, ctx, "keys", func(context.Context) ([]string, error) {
		return c.store.Keys(), nil
	}).Wait(ctx)
}

/*
Run executes op against the store inside the operation queue. It is the
extension point for compound operations that must not interleave with others,
e.g. read-modify-write. op must not call back into c's serialized methods
or Close; it would wait on itself.
*/
func (c *TaskCache) Run(ctx context.Context, name string, op func(ctx context.Context, s *store.Store) (any, error)) (any, error) {
	return c.queue.Run(ctx, name, func(ctx context.Context) (any, error) {
		return op(ctx, c.store)
	})
}

/*
GetOrLoad returns the cached value for key, or computes it with loader.

The read and the write each go through the queue. Between them, concurrent
callers for the same key share one loader call. The shared load runs on a
context detached from any single caller's cancellation, and each caller stops
waiting when its own ctx is done. Loader errors are returned and nothing is
cached.
*/
func (c *TaskCache) GetOrLoad(ctx context.Context, key string, loader types.Loader) (any, error) {
	if v, ok, err := c.Get(ctx, key); err != nil {
		return nil, err
	} else if ok {
		return v, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key, func() (any, error) {
		// Another caller may have filled the key while we waited for the group.
		if v, ok, err := c.Get(loadCtx, key); err != nil {
			return nil, err
		} else if ok {
			return v, nil
		}

		loaded, err := loader.Load(loadCtx, key)
		if err != nil {
			c.engine.Logger.WithFields(logrus.Fields{
				"key":   key,
				"error": err,
			}).Warn("cache load failed")
			return nil, err
		}
		return c.Set(loadCtx, key, loaded)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pending returns how many submitted operations have not settled yet.
func (c *TaskCache) Pending() int {
	return c.queue.Pending()
}

// Idle reports whether no operation is queued or running.
func (c *TaskCache) Idle() bool {
	return c.queue.Idle()
}

/*
Close finishes every operation already submitted, then stops the worker.
Later serialized calls return ErrClosed; Has and Len keep working on the
final state. Close is safe to call more than once.
*/
func (c *TaskCache) Close() error {
	c.queue.Close()
	return nil
}
