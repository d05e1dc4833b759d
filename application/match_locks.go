package application

import (
	"context"
	"sync"
	"time"

	"matchpool/domain/services"
)

// matchLockRegistry serializes all mutations to a single match's
// prediction/result state across scheduler ticks and interactive calls.
// Different matches are independent and lock independently.
type matchLockRegistry struct {
	mu    sync.Mutex
	locks map[string]*matchLock
}

type matchLock struct {
	ch chan struct{}
}

func newMatchLockRegistry() *matchLockRegistry {
	return &matchLockRegistry{locks: make(map[string]*matchLock)}
}

func (r *matchLockRegistry) lockFor(matchID string) *matchLock {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[matchID]
	if !ok {
		l = &matchLock{ch: make(chan struct{}, 1)}
		r.locks[matchID] = l
	}
	return l
}

// Acquire blocks until the match lock is held or the context is done.
// Used by the scheduler tick, which owns its own pacing.
func (r *matchLockRegistry) Acquire(ctx context.Context, matchID string) (func(), error) {
	l := r.lockFor(matchID)
	select {
	case l.ch <- struct{}{}:
		return func() { <-l.ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryAcquire attempts to take the match lock with a short bounded retry
// instead of blocking, so interactive calls fail fast under contention.
func (r *matchLockRegistry) TryAcquire(ctx context.Context, matchID string, attempts int, delay time.Duration) (func(), error) {
	l := r.lockFor(matchID)
	for i := 0; i < attempts; i++ {
		select {
		case l.ch <- struct{}{}:
			return func() { <-l.ch }, nil
		default:
		}
		// No delay after the final attempt; the caller gets the failure
		// immediately
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, services.ErrLockBusy
}
