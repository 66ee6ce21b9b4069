package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient("redis://"+mr.Addr(), "development", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient("not-a-url", "development", zap.NewNop())
	assert.Error(t, err)
}

func TestSetAndGet(t *testing.T) {
	_, client := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))

	val, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestGetMissingKey(t *testing.T) {
	_, client := setupTestClient(t)

	_, err := client.Get(context.Background(), "absent")
	require.Error(t, err)
	assert.True(t, IsNil(err))
}

func TestSetRespectsTTL(t *testing.T) {
	mr, client := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", 30*time.Second))

	mr.FastForward(time.Minute)

	_, err := client.Get(ctx, "k")
	assert.True(t, IsNil(err))
}

func TestSetNX(t *testing.T) {
	_, client := setupTestClient(t)
	ctx := context.Background()

	ok, err := client.SetNX(ctx, "k", "first", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, "k", "second", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	val, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "first", val)
}

func TestDelete(t *testing.T) {
	_, client := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, client.Set(ctx, "b", "2", time.Minute))

	require.NoError(t, client.Delete(ctx, "a", "b"))

	n, err := client.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHealth(t *testing.T) {
	mr, client := setupTestClient(t)

	require.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
