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

func TestClient(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user:1", []byte(`{"id":1}`), time.Minute))
	got, err := c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(got))

	require.NoError(t, c.Delete(ctx, "user:1"))
	got, err = c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_FailsSafe(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	mr.Close()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Delete(ctx, "k"))

	var disabled *Client
	got, err = disabled.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
