package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// StateSyncWorker drives Engine.Tick on a fixed cadence. Manual ticks can
// be requested through Trigger; a rate limiter paces both sources so the
// store is never stampeded.
type StateSyncWorker struct {
	engine   *Engine
	interval time.Duration
	limiter  *rate.Limiter
	trigger  chan struct{}
}

// NewStateSyncWorker creates a new state sync worker
func NewStateSyncWorker(engine *Engine, interval time.Duration) *StateSyncWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StateSyncWorker{
		engine:   engine,
		interval: interval,
		// At most one tick per second regardless of how triggers pile up
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		trigger: make(chan struct{}, 1),
	}
}

// Trigger requests an immediate tick. Coalesced when one is already
// pending.
func (w *StateSyncWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Start begins the worker goroutine and returns a stop function
func (w *StateSyncWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("interval", w.interval).Info("State sync worker started")

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		// Evaluate once at startup so restarts catch up immediately
		w.tick(ctx)

		for {
			select {
			case <-ctx.Done():
				log.Info("State sync worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("State sync worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.tick(ctx)
			case <-w.trigger:
				w.tick(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

func (w *StateSyncWorker) tick(ctx context.Context) {
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	if err := w.engine.Tick(ctx, time.Now().UTC()); err != nil {
		log.WithError(err).Error("State sync tick failed")
	}
}
