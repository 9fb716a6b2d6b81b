package worker

import (
	"context"
	"fmt"
	"log"

	"catering-service/internal/broker"
	"catering-service/internal/models"
	"catering-service/internal/store"
	"catering-service/internal/util"
)

// NotificationWorker materializes user-facing notifications from domain
// events on the broker. Notification writes are idempotent per event id,
// so at-least-once delivery is safe.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, st *store.Store) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		store:    st,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderSubmitted(w.handleOrderSubmitted)
	eventHandler.OnReceptionFinalized(w.handleReceptionFinalized)
	eventHandler.OnIncidentCreated(w.handleIncidentCreated)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

// handleOrderSubmitted notifies warehouse managers of new submissions
func (w *NotificationWorker) handleOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error {
	body := fmt.Sprintf("%s submitted an order with %d lines", event.TeacherName, event.ItemCount)
	return w.notifyManagers(ctx, models.NotificationGeneric, body, event.EventID)
}

// handleReceptionFinalized notifies each order's teacher of the outcome
func (w *NotificationWorker) handleReceptionFinalized(ctx context.Context, event *models.ReceptionFinalizedEvent) error {
	for _, orderID := range event.OrderIDs {
		order, err := w.store.OrderByID(orderID)
		if err != nil {
			continue
		}
		body := fmt.Sprintf("Your order was received with status %s", event.FinalStatus)
		if _, err := w.store.AddNotification(ctx, models.Notification{
			UserID:   order.TeacherID,
			Kind:     models.NotificationOrderReceived,
			Body:     body,
			SourceID: event.EventID + "-" + orderID,
		}); err != nil {
			return err
		}
		util.NotificationsWrittenTotal.Inc()
	}
	return nil
}

// handleIncidentCreated notifies warehouse managers of a new incident
func (w *NotificationWorker) handleIncidentCreated(ctx context.Context, event *models.IncidentCreatedEvent) error {
	body := fmt.Sprintf("Reception incident on %s: %s", event.ProductName, event.Description)
	return w.notifyManagers(ctx, models.NotificationIncident, body, event.EventID)
}

func (w *NotificationWorker) notifyManagers(ctx context.Context, kind, body, sourceID string) error {
	for _, user := range w.store.Users() {
		if user.Role != models.RoleManager && user.Role != models.RoleAdmin {
			continue
		}
		if _, err := w.store.AddNotification(ctx, models.Notification{
			UserID:   user.ID,
			Kind:     kind,
			Body:     body,
			SourceID: sourceID,
		}); err != nil {
			return err
		}
		util.NotificationsWrittenTotal.Inc()
	}
	return nil
}
