package worker

import (
	"context"
	"encoding/json"
	"testing"

	"catering-service/internal/kv"
	"catering-service/internal/models"
	"catering-service/internal/store"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), kv.NewMemoryStore())
	require.NoError(t, err)
	return s
}

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: raw}
}

func TestOrderSubmittedNotifiesManagers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	w := NewNotificationWorker(nil, st)

	_, err := st.AddUser(ctx, models.User{ID: "m1", Name: "Marta", Role: models.RoleManager})
	require.NoError(t, err)
	_, err = st.AddUser(ctx, models.User{ID: "a1", Name: "Ana", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = st.AddUser(ctx, models.User{ID: "t1", Name: "Luis", Role: models.RoleTeacher})
	require.NoError(t, err)

	msg := message(t, models.OrderSubmittedEvent{
		BaseEvent:   models.BaseEvent{EventID: "ev-1", EventType: models.EventTypeOrderSubmitted},
		OrderID:     "o1",
		TeacherName: "Luis",
		ItemCount:   3,
	})
	require.NoError(t, w.eventHandler.HandleMessage(ctx, msg))

	assert.Len(t, st.NotificationsForUser("m1"), 1)
	assert.Len(t, st.NotificationsForUser("a1"), 1)
	assert.Empty(t, st.NotificationsForUser("t1"))

	// redelivery of the same event writes nothing new
	require.NoError(t, w.eventHandler.HandleMessage(ctx, msg))
	assert.Len(t, st.NotificationsForUser("m1"), 1)
}

func TestReceptionFinalizedNotifiesTeachers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	w := NewNotificationWorker(nil, st)

	order, err := st.CreateOrder(ctx, models.Order{EventID: "e1", TeacherID: "t1"})
	require.NoError(t, err)

	msg := message(t, models.ReceptionFinalizedEvent{
		BaseEvent:   models.BaseEvent{EventID: "ev-2", EventType: models.EventTypeReceptionFinalized},
		OrderingID:  "e1",
		FinalStatus: models.OrderStatusReceivedPartial,
		OrderIDs:    []string{order.ID, "gone"},
	})
	require.NoError(t, w.eventHandler.HandleMessage(ctx, msg))

	got := st.NotificationsForUser("t1")
	require.Len(t, got, 1)
	assert.Equal(t, models.NotificationOrderReceived, got[0].Kind)
	assert.Contains(t, got[0].Body, models.OrderStatusReceivedPartial)
}

func TestIncidentCreatedNotifiesManagers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	w := NewNotificationWorker(nil, st)

	_, err := st.AddUser(ctx, models.User{ID: "m1", Name: "Marta", Role: models.RoleManager})
	require.NoError(t, err)

	msg := message(t, models.IncidentCreatedEvent{
		BaseEvent:   models.BaseEvent{EventID: "ev-3", EventType: models.EventTypeIncidentCreated},
		IncidentID:  "i1",
		ProductName: "Tomato",
		Description: "crates damaged",
	})
	require.NoError(t, w.eventHandler.HandleMessage(ctx, msg))

	got := st.NotificationsForUser("m1")
	require.Len(t, got, 1)
	assert.Equal(t, models.NotificationIncident, got[0].Kind)
	assert.Contains(t, got[0].Body, "Tomato")
}

func TestUnknownEventTypeIgnored(t *testing.T) {
	st := newTestStore(t)
	w := NewNotificationWorker(nil, st)

	msg := message(t, models.BaseEvent{EventID: "ev-4", EventType: "SOMETHING_ELSE"})
	assert.NoError(t, w.eventHandler.HandleMessage(context.Background(), msg))
}
