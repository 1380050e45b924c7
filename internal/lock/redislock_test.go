package lock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/adire-living/backend-adire/internal/lock"
)

func newLocker(t *testing.T) lock.Locker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return lock.Locker{R: client, RetryBackoff: 5 * time.Millisecond}
}

func TestWithLockSerializes(t *testing.T) {
	locker := newLocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var order []string
	var mu sync.Mutex
	firstDone := make(chan struct{})
	releaseFirst := make(chan struct{})

	go func() {
		err := locker.WithLock(ctx, "reminder:scan", 100*time.Millisecond, func(context.Context) error {
			mu.Lock()
			order = append(order, "first")
			mu.Unlock()
			close(firstDone)
			<-releaseFirst
			return nil
		})
		require.NoError(t, err)
	}()

	<-firstDone

	go func() {
		err := locker.WithLock(ctx, "reminder:scan", 100*time.Millisecond, func(context.Context) error {
			mu.Lock()
			order = append(order, "second")
			mu.Unlock()
			return nil
		})
		require.NoError(t, err)
	}()

	close(releaseFirst)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	}, time.Second, 10*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"first", "second"}, order)
}

func TestTrySkipsWhenHeld(t *testing.T) {
	locker := newLocker(t)
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := locker.Try(ctx, "reminder:scan", time.Second, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
		done <- err
	}()

	<-held
	ran, err := locker.Try(ctx, "reminder:scan", time.Second, func(context.Context) error {
		t.Error("second scan must not run while lock is held")
		return nil
	})
	require.NoError(t, err)
	require.False(t, ran)

	close(release)
	require.NoError(t, <-done)

	// Once released the next tick acquires normally.
	ran, err = locker.Try(ctx, "reminder:scan", time.Second, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.True(t, ran)
}

func TestWithLockRequiresClient(t *testing.T) {
	err := lock.Locker{}.WithLock(context.Background(), "k", time.Second, func(context.Context) error { return nil })
	require.Error(t, err)
}
