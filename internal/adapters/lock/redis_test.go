package lock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockKey(t *testing.T) {
	assert.Equal(t, "lock:resolver:run", lockKey("resolver:run"))
}

func TestNewRedisLock_EmptyAddr(t *testing.T) {
	_, err := NewRedisLock(context.Background(), Options{})
	require.Error(t, err)
}

func TestNewRedisLock_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisLock(ctx, Options{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping")
}

func TestAcquire_ConnectionErrorIsNotLockHeld(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	l := newWithClient(rdb)
	defer l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	unlock, err := l.Acquire(ctx, "resolver:run", time.Minute)
	require.Error(t, err)
	assert.Nil(t, unlock)
	assert.Contains(t, err.Error(), "setnx")
}
