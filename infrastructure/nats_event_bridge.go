package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"casinobot/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const sourceService = "casinobot"

// MessagePublisher sends raw payloads to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps every event forwarded to NATS
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventBridge forwards committed events from the in-process bus to NATS
type NATSEventBridge struct {
	publisher     MessagePublisher
	subjectMapper *EventSubjectMapper
	onPublished   func(eventType events.EventType)
}

// NewNATSEventBridge creates a new bridge
func NewNATSEventBridge(publisher MessagePublisher, subjectMapper *EventSubjectMapper) *NATSEventBridge {
	return &NATSEventBridge{
		publisher:     publisher,
		subjectMapper: subjectMapper,
	}
}

// OnPublished registers a callback run after each successful publish
func (b *NATSEventBridge) OnPublished(fn func(eventType events.EventType)) {
	b.onPublished = fn
}

// Attach subscribes the bridge to every event on the bus
func (b *NATSEventBridge) Attach(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if err := b.Forward(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to forward event to NATS")
		}
	})
}

// Forward publishes a single event inside an envelope
func (b *NATSEventBridge) Forward(ctx context.Context, event events.Event) error {
	subject := b.subjectMapper.MapEventToSubject(event)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := b.publisher.Publish(ctx, subject, data); err != nil {
		// JetStream answers this way when no stream captures the subject
		if strings.Contains(err.Error(), "no response from stream") {
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	if b.onPublished != nil {
		b.onPublished(event.Type())
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event to NATS")
	return nil
}
