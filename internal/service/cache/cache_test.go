package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.SetBytes(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.SetBytes(ctx, "forever", []byte("x"), 0))

	b, ok, err := c.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(b))

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.GetBytes(ctx, "k")
	assert.False(t, ok)
	_, ok, _ = c.GetBytes(ctx, "forever")
	assert.True(t, ok)
}

func TestTTLCacheSweepsExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }
	c.sweepAt = 2
	ctx := context.Background()

	_ = c.SetBytes(ctx, "a", nil, time.Second)
	_ = c.SetBytes(ctx, "b", nil, time.Second)
	now = now.Add(time.Minute)
	_ = c.SetBytes(ctx, "c", nil, time.Second)
	assert.Equal(t, 1, c.Len())
}

func TestJSONHelpers(t *testing.T) {
	c := NewTTLCache()
	ctx := context.Background()
	type payload struct{ Tag string }

	require.NoError(t, SetJSON(ctx, c, "p", payload{Tag: "ok:gnews"}, time.Minute))
	var got payload
	ok, err := GetJSON(ctx, c, "p", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ok:gnews", got.Tag)

	_ = c.SetBytes(ctx, "bad", []byte("{"), time.Minute)
	ok, err = GetJSON(ctx, c, "bad", &got)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "fetch:nvidia:20", Key("fetch", "NVIDIA", 20))
	long := Key("fetch", strings.Repeat("q", 200))
	assert.Len(t, long, len("fetch:")+32)
}
