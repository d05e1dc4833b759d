package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"matchpool/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchLockRegistry_MutualExclusion(t *testing.T) {
	registry := newMatchLockRegistry()
	ctx := context.Background()

	const goroutines = 16
	var wg sync.WaitGroup
	var holding int
	var maxHolding int
	var mu sync.Mutex

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := registry.Acquire(ctx, "m1")
			require.NoError(t, err)
			defer release()

			mu.Lock()
			holding++
			if holding > maxHolding {
				maxHolding = holding
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holding--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxHolding)
}

func TestMatchLockRegistry_IndependentMatches(t *testing.T) {
	registry := newMatchLockRegistry()
	ctx := context.Background()

	releaseA, err := registry.Acquire(ctx, "m1")
	require.NoError(t, err)
	defer releaseA()

	// A different match locks without waiting on m1
	releaseB, err := registry.TryAcquire(ctx, "m2", 1, time.Millisecond)
	require.NoError(t, err)
	releaseB()
}

func TestMatchLockRegistry_TryAcquireBusy(t *testing.T) {
	registry := newMatchLockRegistry()
	ctx := context.Background()

	release, err := registry.Acquire(ctx, "m1")
	require.NoError(t, err)

	_, err = registry.TryAcquire(ctx, "m1", 2, time.Millisecond)
	assert.ErrorIs(t, err, services.ErrLockBusy)

	release()

	// Free again after release
	releaseAgain, err := registry.TryAcquire(ctx, "m1", 1, time.Millisecond)
	require.NoError(t, err)
	releaseAgain()
}

func TestMatchLockRegistry_TryAcquireRetriesUntilFree(t *testing.T) {
	registry := newMatchLockRegistry()
	ctx := context.Background()

	release, err := registry.Acquire(ctx, "m1")
	require.NoError(t, err)

	go func() {
		time.Sleep(5 * time.Millisecond)
		release()
	}()

	retried, err := registry.TryAcquire(ctx, "m1", 20, 2*time.Millisecond)
	require.NoError(t, err)
	retried()
}

func TestMatchLockRegistry_TryAcquireFailsWithoutTrailingDelay(t *testing.T) {
	registry := newMatchLockRegistry()
	ctx := context.Background()

	release, err := registry.Acquire(ctx, "m1")
	require.NoError(t, err)
	defer release()

	// A single attempt has no retry to pace, so the failure must come
	// back well before one delay period elapses
	started := time.Now()
	_, err = registry.TryAcquire(ctx, "m1", 1, 500*time.Millisecond)
	elapsed := time.Since(started)

	assert.ErrorIs(t, err, services.ErrLockBusy)
	assert.Less(t, elapsed, 250*time.Millisecond)
}

func TestMatchLockRegistry_AcquireHonorsContext(t *testing.T) {
	registry := newMatchLockRegistry()

	release, err := registry.Acquire(context.Background(), "m1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err = registry.Acquire(ctx, "m1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
