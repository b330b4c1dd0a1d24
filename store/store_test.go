package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/taskcache/engine"
	"github.com/krisalay/taskcache/expiration"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(capacity int, ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	eng := engine.NewCacheEngine(&expiration.ExpireAfterWrite{TTL: ttl}, nil, nil)
	eng.Clock = clock.Now
	return New(capacity, eng), clock
}

func TestGetSet(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)

	_, ok := s.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 1, s.Set("a", 1))
	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.Equal(t, 2, s.Update("a", 2))
	v, _ = s.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, s.Len())
}

func TestExpiration(t *testing.T) {
	s, clock := newTestStore(10, time.Second)

	s.Set("x", 10)

	clock.Advance(time.Second)
	v, ok := s.Get("x")
	require.True(t, ok, "an entry exactly ttl old is live")
	assert.Equal(t, 10, v)
	assert.True(t, s.Has("x"))

	clock.Advance(100 * time.Millisecond)
	_, ok = s.Get("x")
	assert.False(t, ok)
	assert.False(t, s.Has("x"))

	// Expired reads do not delete.
	assert.Equal(t, 1, s.Len())
	_, ok = s.Get("x")
	assert.False(t, ok)
}

func TestSetRefreshesTimestamp(t *testing.T) {
	s, clock := newTestStore(10, time.Second)

	s.Set("k", 1)
	clock.Advance(800 * time.Millisecond)
	s.Set("k", 2)
	clock.Advance(800 * time.Millisecond)

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCapacityEvictsOldestInserted(t *testing.T) {
	s, _ := newTestStore(2, time.Second)

	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("c", 3)

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)
	v, _ := s.Get("b")
	assert.Equal(t, 2, v)
	v, _ = s.Get("c")
	assert.Equal(t, 3, v)

	if diff := cmp.Diff([]string{"b", "c"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestOverwriteDoesNotEvictOrReorder(t *testing.T) {
	s, _ := newTestStore(2, time.Hour)

	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("a", 10) // full, but a is present: no eviction
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("b"))

	s.Set("c", 3) // a is still oldest inserted
	assert.False(t, s.Has("a"))
	assert.True(t, s.Has("b"))
	assert.True(t, s.Has("c"))
}

func TestEvictionIgnoresExpiry(t *testing.T) {
	s, clock := newTestStore(2, time.Second)

	s.Set("a", 1)
	clock.Advance(10 * time.Millisecond)
	s.Set("b", 2)
	clock.Advance(2 * time.Second) // both expired now

	s.Set("c", 3)
	if diff := cmp.Diff([]string{"b", "c"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestStore(3, time.Hour)

	s.Set("a", 1)
	s.Set("b", 2)
	s.Clear("a")
	s.Clear("never-set")

	assert.False(t, s.Has("a"))
	assert.True(t, s.Has("b"))
	assert.Equal(t, 1, s.Len())

	// A cleared key frees capacity and re-enters at the back.
	s.Set("c", 3)
	s.Set("a", 4)
	if diff := cmp.Diff([]string{"b", "c", "a"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestClearAll(t *testing.T) {
	s, _ := newTestStore(3, time.Hour)

	for _, k := range []string{"a", "b", "c"} {
		s.Set(k, k)
	}
	s.ClearAll()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Keys())
	for _, k := range []string{"a", "b", "c"} {
		assert.False(t, s.Has(k), k)
	}
}

func TestNew_RejectsNonPositiveCapacity(t *testing.T) {
	assert.Panics(t, func() { New(0, nil) })
}

func TestHas_ConcurrentWithWriter(t *testing.T) {
	s, _ := newTestStore(50, time.Hour)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			s.Set("k", i)
			if i%10 == 0 {
				s.Clear("k")
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
			_ = s.Has("k")
			_ = s.Len()
		}
	}
}

func TestEvictingSetPublishesOnce(t *testing.T) {
	s, _ := newTestStore(3, time.Hour)
	s.Set("a", 0)
	s.Set("b", 0)
	s.Set("c", 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			s.Set(fmt.Sprintf("k%d", i), i)
		}
	}()

	seen := map[int]int{}
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		seen[s.Len()]++
	}

	for n := range seen {
		assert.Equal(t, 3, n, "reader observed a partial write")
	}
	assert.Equal(t, 3, s.Len())
}

func TestEvictsEmptyKey(t *testing.T) {
	s, _ := newTestStore(2, time.Hour)
	s.Set("", "empty")
	s.Set("b", 1)
	s.Set("c", 2)

	assert.False(t, s.Has(""))
	assert.Equal(t, 2, s.Len())
	if diff := cmp.Diff([]string{"b", "c"}, s.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}
