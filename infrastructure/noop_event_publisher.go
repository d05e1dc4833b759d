package infrastructure

import (
	"matchpool/domain/events"
	"matchpool/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// NoopEventPublisher discards events. Used when no NATS servers are configured.
type NoopEventPublisher struct{}

func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

func (p *NoopEventPublisher) Publish(event events.Event) error {
	log.WithField("eventType", event.Type()).Debug("Event publishing disabled, dropping event")
	return nil
}

var _ interfaces.EventPublisher = (*NoopEventPublisher)(nil)
