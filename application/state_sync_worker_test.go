package application

import (
	"context"
	"testing"
	"time"

	"matchpool/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStateSyncWorker_StartupTickAndStop(t *testing.T) {
	f := newEngineFixture()

	ticked := make(chan struct{}, 8)
	f.uow.matchRepo.On("GetAll", mock.Anything).Return([]*entities.Match{}, nil).Run(func(mock.Arguments) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})

	worker := NewStateSyncWorker(f.engine, time.Hour)
	stop := worker.Start(context.Background())
	defer stop()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a startup tick")
	}
}

func TestStateSyncWorker_TriggerCoalesces(t *testing.T) {
	worker := NewStateSyncWorker(newEngineFixture().engine, time.Hour)

	// Without a running goroutine draining the channel, repeated triggers
	// must not block
	for i := 0; i < 10; i++ {
		worker.Trigger()
	}

	assert.Len(t, worker.trigger, 1)
}

func TestStateSyncWorker_DefaultInterval(t *testing.T) {
	worker := NewStateSyncWorker(newEngineFixture().engine, 0)
	assert.Equal(t, time.Minute, worker.interval)
}
