package broker

import (
	"context"
	"encoding/json"
	"testing"

	"catering-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHandlerRoutesByType(t *testing.T) {
	eh := NewEventHandler()

	var gotSubmitted *models.OrderSubmittedEvent
	eh.OnOrderSubmitted(func(_ context.Context, e *models.OrderSubmittedEvent) error {
		gotSubmitted = e
		return nil
	})

	raw, err := json.Marshal(models.OrderSubmittedEvent{
		BaseEvent: models.BaseEvent{EventID: "ev-1", EventType: models.EventTypeOrderSubmitted},
		OrderID:   "o1",
		TeacherID: "t1",
	})
	require.NoError(t, err)

	require.NoError(t, eh.HandleMessage(context.Background(), kafka.Message{Value: raw}))
	require.NotNil(t, gotSubmitted)
	assert.Equal(t, "o1", gotSubmitted.OrderID)
}

func TestEventHandlerIgnoresUnregisteredTypes(t *testing.T) {
	eh := NewEventHandler()

	raw, err := json.Marshal(models.BaseEvent{EventID: "ev-2", EventType: models.EventTypeIncidentCreated})
	require.NoError(t, err)

	assert.NoError(t, eh.HandleMessage(context.Background(), kafka.Message{Value: raw}))
}

func TestEventHandlerRejectsMalformedPayload(t *testing.T) {
	eh := NewEventHandler()
	err := eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestProducerPublishEvent(t *testing.T) {
	t.Skip("Requires a running Kafka broker")
}
