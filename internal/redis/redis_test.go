package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = NewClient(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestRateLimiter_AllowAuth(t *testing.T) {
	mr, client := newMiniredis(t)
	rl := NewRateLimiter(client, RateLimitConfig{AuthLimit: 2, AuthWindow: time.Minute})
	ctx := context.Background()

	first, err := rl.AllowAuth(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)

	second, err := rl.AllowAuth(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third, err := rl.AllowAuth(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, third.Allowed)
	assert.Equal(t, 2, third.Limit)

	other, err := rl.AllowAuth(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	mr.FastForward(time.Minute + time.Second)
	again, err := rl.AllowAuth(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, again.Allowed)
}

func TestRateLimiter_UploadCountedSeparately(t *testing.T) {
	_, client := newMiniredis(t)
	rl := NewRateLimiter(client, RateLimitConfig{AuthLimit: 1, AuthWindow: time.Minute, UploadLimit: 1, UploadWindow: time.Minute})
	ctx := context.Background()

	res, err := rl.AllowUpload(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	res, err = rl.AllowUpload(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = rl.AllowAuth(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestPublisher_Publish(t *testing.T) {
	_, client := newMiniredis(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "channel:test")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n, err := NewPublisher(client).Publish(ctx, "channel:test", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Payload)
}
