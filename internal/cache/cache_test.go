package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func testCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client), mr
}

func TestAside(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	fills := 0
	fill := func(dest *record) func() error {
		return func() error {
			fills++
			dest.ID = 1
			dest.Name = "alice"
			return nil
		}
	}

	t.Run("MissFillsAndStores", func(t *testing.T) {
		var got record
		err := c.Aside(ctx, "user:1", &got, time.Minute, fill(&got))
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Name)
		assert.Equal(t, 1, fills)
	})

	t.Run("HitSkipsFill", func(t *testing.T) {
		var got record
		err := c.Aside(ctx, "user:1", &got, time.Minute, func() error {
			t.Fatal("fill must not run on a hit")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Name)
	})

	t.Run("InvalidateForcesRefill", func(t *testing.T) {
		c.Invalidate(ctx, "user:1")

		var got record
		err := c.Aside(ctx, "user:1", &got, time.Minute, fill(&got))
		require.NoError(t, err)
		assert.Equal(t, 2, fills)
	})

	t.Run("CorruptEntryIsTreatedAsMiss", func(t *testing.T) {
		_, mr := testCache(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer func() { _ = client.Close() }()
		cc := NewWithClient(client)

		require.NoError(t, mr.Set("user:9", "{not json"))

		var got record
		err := cc.Aside(ctx, "user:9", &got, time.Minute, func() error {
			got.ID = 9
			got.Name = "fixed"
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fixed", got.Name)
	})
}

func TestAsideDisabled(t *testing.T) {
	c := NewWithClient(nil)
	ctx := context.Background()

	fills := 0
	var got record
	for i := 0; i < 2; i++ {
		err := c.Aside(ctx, "user:1", &got, time.Minute, func() error {
			fills++
			got.Name = "alice"
			return nil
		})
		require.NoError(t, err)
	}
	// Without a backing store every read is a miss.
	assert.Equal(t, 2, fills)
	assert.Equal(t, "alice", got.Name)

	// No-ops must not panic.
	c.Invalidate(ctx, "user:1")
	assert.NoError(t, c.Close())
	assert.Nil(t, c.Client())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "user:7", UserKey(7))
	assert.Equal(t, "post:3", PostKey(3))
}
