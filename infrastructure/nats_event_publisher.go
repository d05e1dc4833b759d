package infrastructure

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"matchpool/domain/events"
	"matchpool/domain/interfaces"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const subjectPrefix = "matchpool.engine"

// eventEnvelope is the wire format for published events
type eventEnvelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NATSEventPublisher implements the EventPublisher interface using NATS
type NATSEventPublisher struct {
	nc *nats.Conn
}

// NewNATSEventPublisher connects to NATS and returns a publisher
func NewNATSEventPublisher(servers string) (*NATSEventPublisher, error) {
	nc, err := nats.Connect(servers,
		nats.Name("matchpool-engine"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSEventPublisher{nc: nc}, nil
}

// Publish publishes an event to NATS under a per-event-type subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := eventEnvelope{
		EventID:   uuid.New().String(),
		EventType: string(event.Type()),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := subjectFor(event.Type())
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"subject":   subject,
	}).Debug("Published event")
	return nil
}

// Close drains the connection
func (p *NATSEventPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		log.WithError(err).Warn("Failed to drain NATS connection")
	}
}

func subjectFor(eventType events.EventType) string {
	return subjectPrefix + "." + strings.ReplaceAll(string(eventType), "_", ".")
}

var _ interfaces.EventPublisher = (*NATSEventPublisher)(nil)
