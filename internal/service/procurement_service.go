package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"catering-service/internal/broker"
	"catering-service/internal/models"
	"catering-service/internal/store"
	"catering-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProcurementService aggregates submitted orders per event and runs the
// processing step that fixes quantities, suppliers and costs
type ProcurementService struct {
	store     *store.Store
	publisher broker.Publisher
	logger    *zap.Logger
}

// NewProcurementService creates a new procurement service
func NewProcurementService(st *store.Store, publisher broker.Publisher) *ProcurementService {
	return &ProcurementService{
		store:     st,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Contribution is one (order, item) pair feeding an aggregated line
type Contribution struct {
	Order models.Order     `json:"order"`
	Item  models.OrderItem `json:"item"`
}

// AggregatedLine is the per-product rollup across all contributing orders
type AggregatedLine struct {
	Product       models.Product `json:"product"`
	TotalQuantity float64        `json:"total_quantity"`
	Contributions []Contribution `json:"contributions"`
}

// OutOfCatalogRequest is a new-product request attached to an order,
// annotated with the requesting teacher's display name
type OutOfCatalogRequest struct {
	Item        models.OrderItem `json:"item"`
	TeacherID   string           `json:"teacher_id"`
	TeacherName string           `json:"teacher_name"`
}

// EventAggregation is the per-event aggregate view driving processing
type EventAggregation struct {
	EventID      string                `json:"event_id"`
	Lines        []AggregatedLine      `json:"lines"`
	OutOfCatalog []OutOfCatalogRequest `json:"out_of_catalog"`
}

// BestSupplier picks the cheapest Active supplier of a product. Ties on
// price resolve to the first supplier in the product's list order, via
// sort stability. The second return is false when no active supplier
// exists.
func BestSupplier(p models.Product) (models.ProductSupplier, bool) {
	active := make([]models.ProductSupplier, 0, len(p.Suppliers))
	for _, ps := range p.Suppliers {
		if ps.Status == models.StatusActive {
			active = append(active, ps)
		}
	}
	if len(active) == 0 {
		return models.ProductSupplier{}, false
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Price < active[j].Price
	})
	return active[0], true
}

// AggregateEvent collects every Submitted or Processed order of an event
// into per-product totals plus out-of-catalog requests. Items referencing
// inactive or deleted products are skipped.
func (s *ProcurementService) AggregateEvent(ctx context.Context, eventID string) (*EventAggregation, error) {
	_, span := util.StartSpan(ctx, "ProcurementService.AggregateEvent")
	defer span.End()

	if _, err := s.store.EventByID(eventID); err != nil {
		return nil, err
	}

	orders := s.store.OrdersByEvent(eventID,
		models.OrderStatusSubmitted, models.OrderStatusProcessed)

	agg := &EventAggregation{EventID: eventID}
	byProduct := make(map[string]int)

	for _, order := range orders {
		for _, item := range s.store.ItemsByOrder(order.ID) {
			if item.OutOfCatalog {
				agg.OutOfCatalog = append(agg.OutOfCatalog, OutOfCatalogRequest{
					Item:        item,
					TeacherID:   order.TeacherID,
					TeacherName: s.store.UserName(order.TeacherID),
				})
				continue
			}
			product, err := s.store.ProductByID(item.ProductID)
			if err != nil || product.Status != models.StatusActive {
				continue
			}
			idx, ok := byProduct[item.ProductID]
			if !ok {
				agg.Lines = append(agg.Lines, AggregatedLine{Product: product})
				idx = len(agg.Lines) - 1
				byProduct[item.ProductID] = idx
			}
			agg.Lines[idx].TotalQuantity += item.Quantity
			agg.Lines[idx].Contributions = append(agg.Lines[idx].Contributions,
				Contribution{Order: order, Item: item})
		}
	}
	return agg, nil
}

// DefaultAssignments maps each aggregated product to its cheapest active
// supplier. Products with no active supplier are absent from the map and
// must be resolved manually.
func DefaultAssignments(agg *EventAggregation) map[string]string {
	assignments := make(map[string]string)
	for _, line := range agg.Lines {
		if best, ok := BestSupplier(line.Product); ok {
			assignments[line.Product.ID] = best.SupplierID
		}
	}
	return assignments
}

// SupplierSummaryLine is the per-supplier rollup feeding the purchase
// documents generated downstream
type SupplierSummaryLine struct {
	SupplierID string           `json:"supplier_id"`
	Lines      []AggregatedLine `json:"lines"`
	TotalCost  float64          `json:"total_cost"`
	Incomplete bool             `json:"incomplete"`
}

// SupplierSummary groups aggregated lines by assigned supplier. Lines
// without an assignment land in one incomplete entry under the unknown
// supplier sentinel.
func SupplierSummary(agg *EventAggregation, assignments map[string]string) []SupplierSummaryLine {
	bySupplier := make(map[string]int)
	var out []SupplierSummaryLine

	for _, line := range agg.Lines {
		supplierID, ok := assignments[line.Product.ID]
		if !ok {
			supplierID = models.UnknownSupplierID
		}
		idx, seen := bySupplier[supplierID]
		if !seen {
			out = append(out, SupplierSummaryLine{
				SupplierID: supplierID,
				Incomplete: supplierID == models.UnknownSupplierID,
			})
			idx = len(out) - 1
			bySupplier[supplierID] = idx
		}
		out[idx].Lines = append(out[idx].Lines, line)
		if price, ok := supplierPrice(line.Product, supplierID); ok {
			out[idx].TotalCost += lineCost(price, line.TotalQuantity, line.Product.Tax)
		}
	}
	return out
}

// ProcessRequest carries the manager's adjustments for the process step
type ProcessRequest struct {
	// Assignments overrides or confirms the supplier per product.
	Assignments map[string]string `json:"assignments"`
	// EditedQuantities overrides item quantities, keyed by order id then
	// product id. A zero drops the line.
	EditedQuantities map[string]map[string]float64 `json:"edited_quantities"`
}

// ProcessResult summarizes the processing outcome
type ProcessResult struct {
	OrderIDs  []string            `json:"order_ids"`
	Changes   []models.LineChange `json:"changes"`
	TotalCost float64             `json:"total_cost"`
}

// ProcessEvent applies quantity edits and supplier assignments to every
// Submitted order of the event, recomputes order costs with the assigned
// supplier's price and the product tax, transitions the orders to
// Processed, and notifies each teacher whose lines changed.
func (s *ProcurementService) ProcessEvent(ctx context.Context, eventID string, req *ProcessRequest) (*ProcessResult, error) {
	ctx, span := util.StartSpan(ctx, "ProcurementService.ProcessEvent")
	defer span.End()

	start := time.Now()
	defer func() {
		util.ProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	if _, err := s.store.EventByID(eventID); err != nil {
		return nil, err
	}
	if req == nil {
		req = &ProcessRequest{}
	}
	if req.Assignments == nil {
		agg, err := s.AggregateEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		req.Assignments = DefaultAssignments(agg)
	}

	orders := s.store.OrdersByEvent(eventID, models.OrderStatusSubmitted)
	result := &ProcessResult{}
	changesByTeacher := make(map[string][]models.LineChange)

	for _, order := range orders {
		edits := req.EditedQuantities[order.ID]
		var kept []models.OrderItem
		var total float64

		for _, item := range s.store.ItemsByOrder(order.ID) {
			if item.OutOfCatalog {
				kept = append(kept, item)
				continue
			}
			product, err := s.store.ProductByID(item.ProductID)
			if err != nil || product.Status != models.StatusActive {
				continue
			}

			quantity := item.Quantity
			if edited, ok := edits[item.ProductID]; ok && edited != quantity {
				change := models.LineChange{
					OrderID:     order.ID,
					TeacherID:   order.TeacherID,
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					OldQuantity: quantity,
					NewQuantity: edited,
					Dropped:     edited == 0,
				}
				result.Changes = append(result.Changes, change)
				changesByTeacher[order.TeacherID] = append(changesByTeacher[order.TeacherID], change)
				quantity = edited
			}
			if quantity == 0 {
				continue
			}

			supplierID := req.Assignments[item.ProductID]
			item.Quantity = quantity
			item.SupplierID = supplierID
			if price, ok := supplierPrice(product, supplierID); ok {
				item.UnitPrice = price
				total += lineCost(price, quantity, product.Tax)
			}
			kept = append(kept, item)
		}

		if err := s.store.ReplaceOrderItems(ctx, order.ID, kept); err != nil {
			return nil, fmt.Errorf("failed to update items of order %s: %w", order.ID, err)
		}
		order.Status = models.OrderStatusProcessed
		order.TotalCost = total
		if err := s.store.UpdateOrder(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to update order %s: %w", order.ID, err)
		}

		result.OrderIDs = append(result.OrderIDs, order.ID)
		result.TotalCost += total
		util.OrdersProcessedTotal.Inc()
	}

	s.notifyQuantityChanges(ctx, eventID, changesByTeacher)

	event := &models.OrdersProcessedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrdersProcessed,
			Timestamp: time.Now(),
		},
		OrderingID: eventID,
		OrderIDs:   result.OrderIDs,
		Changes:    result.Changes,
		TotalCost:  result.TotalCost,
	}
	if err := s.publisher.PublishOrdersProcessed(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrdersProcessed event", zap.Error(err))
	}

	s.logger.Info("Event processed",
		zap.String("event_id", eventID),
		zap.Int("orders", len(result.OrderIDs)),
		zap.Int("changes", len(result.Changes)))
	return result, nil
}

// notifyQuantityChanges writes one notification and message per teacher
// describing the before/after deltas applied to their order
func (s *ProcurementService) notifyQuantityChanges(ctx context.Context, eventID string, byTeacher map[string][]models.LineChange) {
	for teacherID, changes := range byTeacher {
		body := fmt.Sprintf("Your order for event %s was adjusted during processing:", eventID)
		for _, ch := range changes {
			if ch.Dropped {
				body += fmt.Sprintf("\n- %s: removed (was %.2f)", ch.ProductName, ch.OldQuantity)
			} else {
				body += fmt.Sprintf("\n- %s: %.2f -> %.2f", ch.ProductName, ch.OldQuantity, ch.NewQuantity)
			}
		}
		if _, err := s.store.AddNotification(ctx, models.Notification{
			UserID:   teacherID,
			Kind:     models.NotificationOrderChanged,
			Body:     body,
			SourceID: "process-" + eventID,
		}); err != nil {
			s.logger.Error("Failed to write change notification",
				zap.String("teacher_id", teacherID), zap.Error(err))
		}
		if _, err := s.store.AddMessage(ctx, models.Message{
			SenderID:     "system",
			RecipientIDs: []string{teacherID},
			Subject:      "Order adjusted during processing",
			Body:         body,
		}); err != nil {
			s.logger.Error("Failed to write change message",
				zap.String("teacher_id", teacherID), zap.Error(err))
		}
	}
}

func supplierPrice(p models.Product, supplierID string) (float64, bool) {
	for _, ps := range p.Suppliers {
		if ps.SupplierID == supplierID {
			return ps.Price, true
		}
	}
	return 0, false
}

// lineCost computes price x quantity x (1 + tax%)
func lineCost(price, quantity, taxPercent float64) float64 {
	return price * quantity * (1 + taxPercent/100)
}
