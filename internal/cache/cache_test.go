package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCache connects to a local Redis instance, skipping the test when
// none is available.
func newTestCache(t *testing.T) *Cache {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return New(client, "test:", time.Minute)
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, c.Set(ctx, "key", payload{Name: "ada", Count: 3}))

	var got payload
	hit, err := c.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Name: "ada", Count: 3}, got)
}

func TestCache_MissIsNotAnError(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	var got payload
	hit, err := c.Get(ctx, "absent", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, c.Set(ctx, "a", payload{Name: "a"}))
	require.NoError(t, c.Set(ctx, "b", payload{Name: "b"}))
	require.NoError(t, c.Delete(ctx, "a", "b"))

	var got payload
	hit, err := c.Get(ctx, "a", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	// Deleting nothing is a no-op.
	require.NoError(t, c.Delete(ctx))
}
