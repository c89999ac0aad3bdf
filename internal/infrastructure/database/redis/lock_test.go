package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
)

func TestMutex_Lock_Unlock(t *testing.T) {
	client, _ := newTestClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	lock := factory.NewMutex("simulation/r1", WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))

	exists, _ := client.Exists(ctx, "invasim:lock:simulation/r1").Result()
	assert.Equal(t, int64(1), exists)
	ttl, err := lock.TTL(ctx)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, lock.Unlock(ctx))
	exists, _ = client.Exists(ctx, "invasim:lock:simulation/r1").Result()
	assert.Equal(t, int64(0), exists)

	assert.ErrorIs(t, lock.Unlock(ctx), ErrLockNotHeld)
}

func TestMutex_Lock_Contention(t *testing.T) {
	client, _ := newTestClient(t)
	factory := NewLockFactory(client, nil)
	ctx := context.Background()

	lock1 := factory.NewMutex("r1", WithRetryCount(1), WithRetryDelay(10*time.Millisecond))
	lock2 := factory.NewMutex("r1", WithRetryCount(1), WithRetryDelay(10*time.Millisecond))

	require.NoError(t, lock1.Lock(ctx))
	assert.ErrorIs(t, lock2.Lock(ctx), ErrLockNotAcquired)

	ok, err := lock2.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock1.Unlock(ctx))
	assert.NoError(t, lock2.Lock(ctx))
}

func TestMutex_Extend(t *testing.T) {
	client, _ := newTestClient(t)
	factory := NewLockFactory(client, nil)
	ctx := context.Background()

	owner := factory.NewMutex("r1", WithLockTTL(time.Second))
	other := factory.NewMutex("r1")
	require.NoError(t, owner.Lock(ctx))

	ok, err := owner.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = other.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMutex_Watchdog(t *testing.T) {
	client, _ := newTestClient(t)
	factory := NewLockFactory(client, nil)
	ctx := context.Background()

	lock := factory.NewMutex("r1", WithLockTTL(time.Minute), WithWatchdog(true), WithWatchdogInterval(5*time.Millisecond))
	require.NoError(t, lock.Lock(ctx))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, lock.Unlock(ctx))
}

func TestMutex_ClosedClient(t *testing.T) {
	client, _ := newTestClient(t)
	lock := NewLockFactory(client, nil).NewMutex("r1")
	require.NoError(t, client.Close())
	_, err := lock.TryLock(context.Background())
	assert.ErrorIs(t, err, ErrClientClosed)
}

//Personal.AI order the ending
