package service

import (
	"context"
	"fmt"
	"time"

	"catering-service/internal/broker"
	"catering-service/internal/models"
	"catering-service/internal/store"
	"catering-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles the teacher side of the ordering workflow
type OrderService struct {
	store     *store.Store
	publisher broker.Publisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(st *store.Store, publisher broker.Publisher) *OrderService {
	return &OrderService{
		store:     st,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// OrderLineRequest is one requested line. ProductID is empty for
// out-of-catalog requests, which must carry a product name instead.
type OrderLineRequest struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Unit        string  `json:"unit"`
}

// CreateOrderRequest represents a teacher's draft order
type CreateOrderRequest struct {
	EventID   string             `json:"event_id" binding:"required"`
	TeacherID string             `json:"teacher_id" binding:"required"`
	Notes     string             `json:"notes"`
	Items     []OrderLineRequest `json:"items" binding:"required,min=1"`
}

// CreateDraft creates a Draft order with its items after checking that
// the teacher may order against the event
func (s *OrderService) CreateDraft(ctx context.Context, req *CreateOrderRequest) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateDraft")
	defer span.End()

	event, err := s.store.EventByID(req.EventID)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("event_not_found").Inc()
		return models.Order{}, err
	}
	if event.Type == models.EventTypeExtraordinary && !authorized(event, req.TeacherID) {
		util.OrdersFailedTotal.WithLabelValues("not_authorized").Inc()
		return models.Order{}, fmt.Errorf("teacher %s is not on the event allow-list: %w",
			req.TeacherID, store.ErrBusinessRule)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		item := models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
		}
		if line.ProductID == "" {
			if line.ProductName == "" {
				util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
				return models.Order{}, fmt.Errorf("out-of-catalog line requires a product name: %w",
					store.ErrValidation)
			}
			item.OutOfCatalog = true
		} else {
			product, err := s.store.ProductByID(line.ProductID)
			if err != nil {
				util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
				return models.Order{}, err
			}
			item.ProductName = product.Name
			if item.Unit == "" {
				item.Unit = product.Unit
			}
		}
		items = append(items, item)
	}

	order := models.Order{
		EventID:   req.EventID,
		TeacherID: req.TeacherID,
		Status:    models.OrderStatusDraft,
		Notes:     req.Notes,
	}
	created, err := s.store.CreateOrderWithItems(ctx, order, items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("create_failed").Inc()
		return models.Order{}, err
	}

	s.logger.Info("Draft order created",
		zap.String("order_id", created.ID),
		zap.String("event_id", created.EventID),
		zap.String("teacher_id", created.TeacherID))
	return created, nil
}

// Submit transitions a Draft order to Submitted and announces it
func (s *OrderService) Submit(ctx context.Context, orderID string) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Submit")
	defer span.End()

	order, err := s.store.OrderByID(orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.Status != models.OrderStatusDraft {
		return models.Order{}, fmt.Errorf("order %s is %s, only drafts can be submitted: %w",
			orderID, order.Status, store.ErrBusinessRule)
	}

	order.Status = models.OrderStatusSubmitted
	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return models.Order{}, err
	}
	util.OrdersSubmittedTotal.Inc()

	items := s.store.ItemsByOrder(orderID)
	event := &models.OrderSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderSubmitted,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		OrderingID:  order.EventID,
		TeacherID:   order.TeacherID,
		TeacherName: s.store.UserName(order.TeacherID),
		ItemCount:   len(items),
	}
	if err := s.publisher.PublishOrderSubmitted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderSubmitted event", zap.Error(err))
	}

	return order, nil
}

// GetOrder retrieves an order together with its items
func (s *OrderService) GetOrder(orderID string) (models.Order, []models.OrderItem, error) {
	order, err := s.store.OrderByID(orderID)
	if err != nil {
		return models.Order{}, nil, err
	}
	return order, s.store.ItemsByOrder(orderID), nil
}

func authorized(event models.Event, teacherID string) bool {
	for _, id := range event.AuthorizedTeacherIDs {
		if id == teacherID {
			return true
		}
	}
	return false
}
