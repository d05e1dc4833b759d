package interfaces

import (
	"matchpool/domain/events"
)

// EventPublisher defines the interface for publishing engine events
type EventPublisher interface {
	// Publish publishes an event. Publishing is best-effort; failures must
	// not roll back the state change that produced the event.
	Publish(event events.Event) error
}
