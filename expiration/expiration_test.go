package expiration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/krisalay/taskcache/types"
)

func TestExpireAfterWrite(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ent := types.NewCacheEntry("k", "v", base)
	s := &ExpireAfterWrite{TTL: time.Second}

	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"fresh", 0, false},
		{"just before ttl", 999 * time.Millisecond, false},
		{"exactly ttl", time.Second, false},
		{"past ttl", time.Second + time.Nanosecond, true},
		{"long past", time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsExpired(ent, base.Add(tt.elapsed)))
		})
	}
}

func TestExpireAfterWrite_ZeroTTL(t *testing.T) {
	base := time.Now()
	ent := types.NewCacheEntry("k", 1, base)
	s := &ExpireAfterWrite{}

	assert.False(t, s.IsExpired(ent, base), "an entry read at its own timestamp is live")
	assert.True(t, s.IsExpired(ent, base.Add(time.Millisecond)))
}
