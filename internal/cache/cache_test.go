package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewFromClient(client)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetJSONMissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got payload
	found, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetJSON(ctx, "k", payload{ID: 3, Name: "pendant"}, time.Minute))

	found, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{ID: 3, Name: "pendant"}, got)
}

func TestAsideFetchesOnceThenServesFromCache(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{ID: 9, Name: "coin"}
			return nil
		}
	}

	var first payload
	require.NoError(t, c.Aside(ctx, "user:9", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)

	var second payload
	require.NoError(t, c.Aside(ctx, "user:9", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls, "second read must come from the cache")
	assert.Equal(t, first, second)
}

func TestAsidePropagatesFetchError(t *testing.T) {
	c, _ := newTestCache(t)

	wantErr := errors.New("row missing")
	var dest payload
	err := c.Aside(context.Background(), "user:404", &dest, time.Minute, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	exists, getErr := c.GetJSON(context.Background(), "user:404", &dest)
	require.NoError(t, getErr)
	assert.False(t, exists, "failed fetches must not be cached")
}

func TestAsideFallsBackWhenRedisDies(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	calls := 0
	var dest payload
	err := c.Aside(context.Background(), "k", &dest, time.Minute, func() error {
		calls++
		dest = payload{ID: 1, Name: "relic"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint(1), dest.ID)
}

func TestInvalidateRemovesKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "a", payload{ID: 1}, time.Minute))
	require.NoError(t, c.SetJSON(ctx, "b", payload{ID: 2}, time.Minute))
	c.Invalidate(ctx, "a", "b")

	var dest payload
	found, err := c.GetJSON(ctx, "a", &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDisabledCacheIsInert(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	assert.False(t, c.Enabled())
	var dest payload
	found, err := c.GetJSON(ctx, "k", &dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.SetJSON(ctx, "k", payload{}, time.Minute))
	c.Invalidate(ctx, "k")
	assert.NoError(t, c.Close())

	empty := New("")
	assert.False(t, empty.Enabled())
}

func TestUserKeyFormat(t *testing.T) {
	assert.Equal(t, "trove:user:42", UserKey(42))
}
