package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"catering-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// Publisher abstracts event publishing so services can run without a
// broker (tests, sandbox mode).
type Publisher interface {
	PublishOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error
	PublishOrdersProcessed(ctx context.Context, event *models.OrdersProcessedEvent) error
	PublishReceptionFinalized(ctx context.Context, event *models.ReceptionFinalizedEvent) error
	PublishIncidentCreated(ctx context.Context, event *models.IncidentCreatedEvent) error
}

// EventPublisher publishes domain events to Kafka
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderSubmitted publishes an OrderSubmitted event
func (ep *EventPublisher) PublishOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrdersProcessed publishes an OrdersProcessed event
func (ep *EventPublisher) PublishOrdersProcessed(ctx context.Context, event *models.OrdersProcessedEvent) error {
	key := fmt.Sprintf("event-%s", event.OrderingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishReceptionFinalized publishes a ReceptionFinalized event
func (ep *EventPublisher) PublishReceptionFinalized(ctx context.Context, event *models.ReceptionFinalizedEvent) error {
	key := fmt.Sprintf("event-%s", event.OrderingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishIncidentCreated publishes an IncidentCreated event
func (ep *EventPublisher) PublishIncidentCreated(ctx context.Context, event *models.IncidentCreatedEvent) error {
	key := fmt.Sprintf("incident-%s", event.IncidentID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// NopPublisher drops every event. Used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderSubmitted(context.Context, *models.OrderSubmittedEvent) error {
	return nil
}
func (NopPublisher) PublishOrdersProcessed(context.Context, *models.OrdersProcessedEvent) error {
	return nil
}
func (NopPublisher) PublishReceptionFinalized(context.Context, *models.ReceptionFinalizedEvent) error {
	return nil
}
func (NopPublisher) PublishIncidentCreated(context.Context, *models.IncidentCreatedEvent) error {
	return nil
}

// EventHandler routes incoming broker messages to registered callbacks
type EventHandler struct {
	onOrderSubmitted     func(context.Context, *models.OrderSubmittedEvent) error
	onReceptionFinalized func(context.Context, *models.ReceptionFinalizedEvent) error
	onIncidentCreated    func(context.Context, *models.IncidentCreatedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderSubmitted registers a handler for OrderSubmitted events
func (eh *EventHandler) OnOrderSubmitted(handler func(context.Context, *models.OrderSubmittedEvent) error) {
	eh.onOrderSubmitted = handler
}

// OnReceptionFinalized registers a handler for ReceptionFinalized events
func (eh *EventHandler) OnReceptionFinalized(handler func(context.Context, *models.ReceptionFinalizedEvent) error) {
	eh.onReceptionFinalized = handler
}

// OnIncidentCreated registers a handler for IncidentCreated events
func (eh *EventHandler) OnIncidentCreated(handler func(context.Context, *models.IncidentCreatedEvent) error) {
	eh.onIncidentCreated = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeOrderSubmitted:
		if eh.onOrderSubmitted != nil {
			var event models.OrderSubmittedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderSubmitted event: %w", err)
			}
			return eh.onOrderSubmitted(ctx, &event)
		}

	case models.EventTypeReceptionFinalized:
		if eh.onReceptionFinalized != nil {
			var event models.ReceptionFinalizedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ReceptionFinalized event: %w", err)
			}
			return eh.onReceptionFinalized(ctx, &event)
		}

	case models.EventTypeIncidentCreated:
		if eh.onIncidentCreated != nil {
			var event models.IncidentCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal IncidentCreated event: %w", err)
			}
			return eh.onIncidentCreated(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
