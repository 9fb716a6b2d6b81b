package store

import (
	"context"
	"fmt"
	"time"

	"catering-service/internal/models"

	"github.com/google/uuid"
)

// Events returns a copy of the event collection, in stored order
func (s *Store) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Event(nil), s.events...)
}

// EventByID looks up an event
func (s *Store) EventByID(id string) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
}

// ActiveRegularEvent returns the first Active Regular event in stored
// order. Mini-economato expense assignment charges against it.
func (s *Store) ActiveRegularEvent() (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.Type == models.EventTypeRegular && e.Status == models.EventStatusActive {
			return e, nil
		}
	}
	return models.Event{}, fmt.Errorf("no active regular event: %w", ErrBusinessRule)
}

// AddEvent inserts a manually created event
func (s *Store) AddEvent(ctx context.Context, e models.Event) (models.Event, error) {
	if e.Name == "" {
		return models.Event{}, fmt.Errorf("event name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = models.EventStatusScheduled
	}
	s.events = append(s.events, e)
	if err := s.persist(ctx, KeyEvents, s.events); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// MergeGeneratedEvents appends generator output and persists once
func (s *Store) MergeGeneratedEvents(ctx context.Context, generated []models.Event) error {
	if len(generated) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, generated...)
	return s.persist(ctx, KeyEvents, s.events)
}

// UpdateEvent replaces an existing event
func (s *Store) UpdateEvent(ctx context.Context, e models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID == e.ID {
			s.events[i] = e
			return s.persist(ctx, KeyEvents, s.events)
		}
	}
	return fmt.Errorf("event %s: %w", e.ID, ErrNotFound)
}

// Orders returns a copy of the order collection
func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

// OrderByID looks up an order
func (s *Store) OrderByID(id string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
}

// OrdersByEvent returns orders for an event, optionally filtered by status
func (s *Store) OrdersByEvent(eventID string, statuses ...string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Order
	for _, o := range s.orders {
		if o.EventID != eventID {
			continue
		}
		if len(statuses) == 0 {
			out = append(out, o)
			continue
		}
		for _, st := range statuses {
			if o.Status == st {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

// OrderByTeacherAndEvent finds the single order a teacher holds for an event
func (s *Store) OrderByTeacherAndEvent(teacherID, eventID string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.TeacherID == teacherID && o.EventID == eventID && o.Type != models.OrderTypeEconomato {
			return o, nil
		}
	}
	return models.Order{}, fmt.Errorf("order for teacher %s on event %s: %w", teacherID, eventID, ErrNotFound)
}

// CreateOrder inserts a new order, enforcing one order per
// (teacher, event) pair
func (s *Store) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	if o.EventID == "" || o.TeacherID == "" {
		return models.Order{}, fmt.Errorf("order requires event and teacher: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Economato-synthesized orders are exempt from the one-order-per-
	// teacher-per-event rule.
	if o.Type != models.OrderTypeEconomato {
		for _, existing := range s.orders {
			if existing.Type == models.OrderTypeEconomato {
				continue
			}
			if existing.TeacherID == o.TeacherID && existing.EventID == o.EventID {
				return models.Order{}, fmt.Errorf("teacher %s already has an order for event %s: %w",
					o.TeacherID, o.EventID, ErrDuplicate)
			}
		}
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = models.OrderStatusDraft
	}
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	s.orders = append(s.orders, o)
	if err := s.persist(ctx, KeyOrders, s.orders); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// CreateOrderWithItems inserts an order together with its items,
// persisting both collections. Used by order submission and by the
// mini-economato expense synthesis.
func (s *Store) CreateOrderWithItems(ctx context.Context, o models.Order, items []models.OrderItem) (models.Order, error) {
	created, err := s.CreateOrder(ctx, o)
	if err != nil {
		return models.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].OrderID = created.ID
		s.orderItems = append(s.orderItems, items[i])
	}
	if err := s.persist(ctx, KeyOrderItems, s.orderItems); err != nil {
		return models.Order{}, err
	}
	return created, nil
}

// UpdateOrder replaces an existing order, refreshing UpdatedAt
func (s *Store) UpdateOrder(ctx context.Context, o models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == o.ID {
			o.CreatedAt = s.orders[i].CreatedAt
			o.UpdatedAt = time.Now()
			s.orders[i] = o
			return s.persist(ctx, KeyOrders, s.orders)
		}
	}
	return fmt.Errorf("order %s: %w", o.ID, ErrNotFound)
}

// UpdateOrdersStatus transitions a set of orders to one status,
// persisting once
func (s *Store) UpdateOrdersStatus(ctx context.Context, ids []string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	now := time.Now()
	for i := range s.orders {
		if _, ok := idSet[s.orders[i].ID]; ok {
			s.orders[i].Status = status
			s.orders[i].UpdatedAt = now
		}
	}
	return s.persist(ctx, KeyOrders, s.orders)
}

// DeleteOrder removes an order and cascades its items
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.orders {
		if s.orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	s.orders = append(s.orders[:idx], s.orders[idx+1:]...)

	kept := s.orderItems[:0]
	for _, item := range s.orderItems {
		if item.OrderID != id {
			kept = append(kept, item)
		}
	}
	s.orderItems = kept

	if err := s.persist(ctx, KeyOrders, s.orders); err != nil {
		return err
	}
	return s.persist(ctx, KeyOrderItems, s.orderItems)
}

// OrderItems returns a copy of the order-item collection
func (s *Store) OrderItems() []models.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.OrderItem(nil), s.orderItems...)
}

// ItemsByOrder returns the items belonging to one order
func (s *Store) ItemsByOrder(orderID string) []models.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.OrderItem
	for _, item := range s.orderItems {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out
}

// AddOrderItem appends one item to an existing order
func (s *Store) AddOrderItem(ctx context.Context, item models.OrderItem) (models.OrderItem, error) {
	if item.OrderID == "" {
		return models.OrderItem{}, fmt.Errorf("order item requires an order: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	s.orderItems = append(s.orderItems, item)
	if err := s.persist(ctx, KeyOrderItems, s.orderItems); err != nil {
		return models.OrderItem{}, err
	}
	return item, nil
}

// UpdateOrderItem replaces an existing order item
func (s *Store) UpdateOrderItem(ctx context.Context, item models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orderItems {
		if s.orderItems[i].ID == item.ID {
			s.orderItems[i] = item
			return s.persist(ctx, KeyOrderItems, s.orderItems)
		}
	}
	return fmt.Errorf("order item %s: %w", item.ID, ErrNotFound)
}

// DeleteOrderItem removes one order item
func (s *Store) DeleteOrderItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orderItems {
		if s.orderItems[i].ID == id {
			s.orderItems = append(s.orderItems[:i], s.orderItems[i+1:]...)
			return s.persist(ctx, KeyOrderItems, s.orderItems)
		}
	}
	return fmt.Errorf("order item %s: %w", id, ErrNotFound)
}

// ReplaceOrderItems swaps the full item set of one order and persists once.
// Used by processing when applying edited quantities.
func (s *Store) ReplaceOrderItems(ctx context.Context, orderID string, items []models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.orderItems[:0]
	for _, item := range s.orderItems {
		if item.OrderID != orderID {
			kept = append(kept, item)
		}
	}
	s.orderItems = kept
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].OrderID = orderID
		s.orderItems = append(s.orderItems, items[i])
	}
	return s.persist(ctx, KeyOrderItems, s.orderItems)
}
