package service

import (
	"context"
	"fmt"

	"catering-service/internal/models"
	"catering-service/internal/store"
	"catering-service/internal/util"

	"go.uber.org/zap"
)

// EconomatoService manages the mini-economato small-stock buffer
type EconomatoService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewEconomatoService creates a new mini-economato service
func NewEconomatoService(st *store.Store) *EconomatoService {
	return &EconomatoService{store: st, logger: util.GetLogger()}
}

// Stock lists the full buffer
func (s *EconomatoService) Stock() []models.MiniEconomatoItem {
	return s.store.MiniEconomato()
}

// LowStock lists lines below their minimum
func (s *EconomatoService) LowStock() []models.MiniEconomatoItem {
	var out []models.MiniEconomatoItem
	for _, item := range s.store.MiniEconomato() {
		if item.CurrentStock < item.MinStock {
			out = append(out, item)
		}
	}
	return out
}

// SetStock inserts or replaces one stock line after checking the
// product exists in the catalog
func (s *EconomatoService) SetStock(ctx context.Context, item models.MiniEconomatoItem) error {
	if _, err := s.store.ProductByID(item.ProductID); err != nil {
		return err
	}
	if item.CurrentStock < 0 || item.MinStock < 0 {
		return fmt.Errorf("stock quantities cannot be negative: %w", store.ErrValidation)
	}
	return s.store.UpsertMiniEconomatoItem(ctx, item)
}

// AssignExpenseRequest draws stock and charges it to the active window
type AssignExpenseRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	UserID    string  `json:"user_id" binding:"required"`
	Notes     string  `json:"notes"`
}

// AssignExpense decrements the buffer and synthesizes a Processed order
// against the first currently Active Regular event. It fails without
// mutating state when stock is insufficient or no such event exists.
func (s *EconomatoService) AssignExpense(ctx context.Context, req *AssignExpenseRequest) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "EconomatoService.AssignExpense")
	defer span.End()

	product, err := s.store.ProductByID(req.ProductID)
	if err != nil {
		return models.Order{}, err
	}
	event, err := s.store.ActiveRegularEvent()
	if err != nil {
		return models.Order{}, err
	}
	var unitPrice float64
	supplierID := models.UnknownSupplierID
	if best, ok := BestSupplier(product); ok {
		unitPrice = best.Price
		supplierID = best.SupplierID
	}

	order := models.Order{
		EventID:   event.ID,
		TeacherID: req.UserID,
		Status:    models.OrderStatusProcessed,
		Type:      models.OrderTypeEconomato,
		Notes:     req.Notes,
		TotalCost: unitPrice * req.Quantity * (1 + product.Tax/100),
	}
	orderItem := models.OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    req.Quantity,
		Unit:        product.Unit,
		SupplierID:  supplierID,
		UnitPrice:   unitPrice,
	}

	// Draw the stock first; the adjustment rejects insufficient stock
	// without mutating anything.
	if _, err := s.store.AdjustMiniEconomatoStock(ctx, req.ProductID, -req.Quantity); err != nil {
		return models.Order{}, err
	}
	created, err := s.store.CreateOrderWithItems(ctx, order, []models.OrderItem{orderItem})
	if err != nil {
		// Compensate the draw so stock and orders stay consistent.
		if _, restoreErr := s.store.AdjustMiniEconomatoStock(ctx, req.ProductID, req.Quantity); restoreErr != nil {
			s.logger.Error("Failed to restore stock after order failure",
				zap.String("product_id", req.ProductID), zap.Error(restoreErr))
		}
		return models.Order{}, err
	}

	util.EconomatoExpensesTotal.Inc()
	s.logger.Info("Mini-economato expense assigned",
		zap.String("product_id", req.ProductID),
		zap.Float64("quantity", req.Quantity),
		zap.String("event_id", event.ID),
		zap.String("order_id", created.ID))
	return created, nil
}
