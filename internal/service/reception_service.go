package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catering-service/internal/broker"
	"catering-service/internal/models"
	"catering-service/internal/store"
	"catering-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceptionSession tracks the goods-receipt verification of one
// processed event. Sessions live in memory only; the durable outcome is
// the order-status rollup and the incident log written at finalize.
type ReceptionSession struct {
	EventID   string                 `json:"event_id"`
	Lines     []models.ReceptionLine `json:"lines"`
	StartedAt time.Time              `json:"started_at"`

	incidents map[string]models.Incident
}

// snapshot copies the session for use outside the service mutex.
func (s *ReceptionSession) snapshot() *ReceptionSession {
	return &ReceptionSession{
		EventID:   s.EventID,
		Lines:     append([]models.ReceptionLine(nil), s.Lines...),
		StartedAt: s.StartedAt,
	}
}

// ReceptionService verifies received quantities against processed orders
type ReceptionService struct {
	store     *store.Store
	publisher broker.Publisher
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*ReceptionSession
}

// NewReceptionService creates a new reception service
func NewReceptionService(st *store.Store, publisher broker.Publisher) *ReceptionService {
	return &ReceptionService{
		store:     st,
		publisher: publisher,
		logger:    util.GetLogger(),
		sessions:  make(map[string]*ReceptionSession),
	}
}

// StartSession opens (or returns) the reception session for an event.
// Every aggregated product line starts Pending with the received
// quantity pre-filled to the ordered quantity.
func (s *ReceptionService) StartSession(ctx context.Context, eventID string) (*ReceptionSession, error) {
	_, span := util.StartSpan(ctx, "ReceptionService.StartSession")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[eventID]; ok {
		return session.snapshot(), nil
	}

	if _, err := s.store.EventByID(eventID); err != nil {
		return nil, err
	}
	orders := s.store.OrdersByEvent(eventID, models.OrderStatusProcessed)
	if len(orders) == 0 {
		return nil, fmt.Errorf("event %s has no processed orders to receive: %w",
			eventID, store.ErrBusinessRule)
	}

	session := &ReceptionSession{
		EventID:   eventID,
		StartedAt: time.Now(),
		incidents: make(map[string]models.Incident),
	}
	byProduct := make(map[string]int)
	for _, order := range orders {
		for _, item := range s.store.ItemsByOrder(order.ID) {
			if item.OutOfCatalog || item.ProductID == "" {
				continue
			}
			idx, ok := byProduct[item.ProductID]
			if !ok {
				session.Lines = append(session.Lines, models.ReceptionLine{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Unit:        item.Unit,
					Status:      models.ReceptionPending,
				})
				idx = len(session.Lines) - 1
				byProduct[item.ProductID] = idx
			}
			session.Lines[idx].OrderedQuantity += item.Quantity
			session.Lines[idx].OrderItemIDs = append(session.Lines[idx].OrderItemIDs, item.ID)
		}
	}
	for i := range session.Lines {
		session.Lines[i].ReceivedQuantity = session.Lines[i].OrderedQuantity
	}

	s.sessions[eventID] = session
	return session.snapshot(), nil
}

// Session returns the open session for an event, if any
func (s *ReceptionService) Session(eventID string) (*ReceptionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[eventID]
	if !ok {
		return nil, fmt.Errorf("no open reception session for event %s: %w",
			eventID, store.ErrNotFound)
	}
	return session.snapshot(), nil
}

func (s *ReceptionService) line(eventID, productID string) (*ReceptionSession, *models.ReceptionLine, error) {
	session, ok := s.sessions[eventID]
	if !ok {
		return nil, nil, fmt.Errorf("no open reception session for event %s: %w",
			eventID, store.ErrNotFound)
	}
	for i := range session.Lines {
		if session.Lines[i].ProductID == productID {
			return session, &session.Lines[i], nil
		}
	}
	return nil, nil, fmt.Errorf("product %s not in reception session: %w",
		productID, store.ErrNotFound)
}

// SetReceived records a received quantity and reclassifies the line:
// below ordered quantity is Partial, otherwise Ok. An Incident line is
// sticky and keeps its status until explicitly re-set.
func (s *ReceptionService) SetReceived(eventID, productID string, quantity float64) (models.ReceptionLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, line, err := s.line(eventID, productID)
	if err != nil {
		return models.ReceptionLine{}, err
	}
	if quantity < 0 {
		return models.ReceptionLine{}, fmt.Errorf("received quantity cannot be negative: %w",
			store.ErrValidation)
	}

	line.ReceivedQuantity = quantity
	if line.Status != models.ReceptionIncident {
		if quantity < line.OrderedQuantity {
			line.Status = models.ReceptionPartial
		} else {
			line.Status = models.ReceptionOK
		}
	}
	return *line, nil
}

// MarkOK forces a line to Ok regardless of quantity, clearing any
// pending incident recorded for it
func (s *ReceptionService) MarkOK(eventID, productID string) (models.ReceptionLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, line, err := s.line(eventID, productID)
	if err != nil {
		return models.ReceptionLine{}, err
	}
	line.Status = models.ReceptionOK
	delete(session.incidents, productID)
	return *line, nil
}

// MarkIncident flags a line with an incident, capturing the operator's
// description and attributing it to the cheapest active supplier of the
// product (sentinel when none exists). The incident is appended to the
// global log at finalize.
func (s *ReceptionService) MarkIncident(eventID, productID, description string) (models.ReceptionLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, line, err := s.line(eventID, productID)
	if err != nil {
		return models.ReceptionLine{}, err
	}

	supplierID := models.UnknownSupplierID
	if product, err := s.store.ProductByID(productID); err == nil {
		if best, ok := BestSupplier(product); ok {
			supplierID = best.SupplierID
		}
	}

	line.Status = models.ReceptionIncident
	session.incidents[productID] = models.Incident{
		ID:           uuid.New().String(),
		EventID:      eventID,
		ProductID:    productID,
		ProductName:  line.ProductName,
		SupplierID:   supplierID,
		Date:         time.Now(),
		Description:  description,
		OrderItemIDs: append([]string(nil), line.OrderItemIDs...),
	}
	return *line, nil
}

// Finalize closes the session once every line has been reviewed. Any
// Partial or Incident line rolls every Processed order of the event up
// to ReceivedPartial; only an all-Ok session yields ReceivedOK.
func (s *ReceptionService) Finalize(ctx context.Context, eventID string) (string, []models.Incident, error) {
	ctx, span := util.StartSpan(ctx, "ReceptionService.Finalize")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[eventID]
	if !ok {
		return "", nil, fmt.Errorf("no open reception session for event %s: %w",
			eventID, store.ErrNotFound)
	}

	allOK := true
	for _, line := range session.Lines {
		switch line.Status {
		case models.ReceptionPending:
			return "", nil, fmt.Errorf("line %s is still pending review: %w",
				line.ProductName, store.ErrBusinessRule)
		case models.ReceptionPartial, models.ReceptionIncident:
			allOK = false
		}
	}

	finalStatus := models.OrderStatusReceivedOK
	if !allOK {
		finalStatus = models.OrderStatusReceivedPartial
	}

	orders := s.store.OrdersByEvent(eventID, models.OrderStatusProcessed)
	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	if err := s.store.UpdateOrdersStatus(ctx, orderIDs, finalStatus); err != nil {
		return "", nil, fmt.Errorf("failed to roll up order statuses: %w", err)
	}

	incidents := make([]models.Incident, 0, len(session.incidents))
	for _, line := range session.Lines {
		if inc, ok := session.incidents[line.ProductID]; ok {
			incidents = append(incidents, inc)
		}
	}
	if err := s.store.AddIncidents(ctx, incidents); err != nil {
		return "", nil, fmt.Errorf("failed to record incidents: %w", err)
	}
	util.IncidentsCreatedTotal.Add(float64(len(incidents)))

	for _, inc := range incidents {
		event := &models.IncidentCreatedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeIncidentCreated,
				Timestamp: time.Now(),
			},
			IncidentID:  inc.ID,
			OrderingID:  eventID,
			ProductID:   inc.ProductID,
			ProductName: inc.ProductName,
			SupplierID:  inc.SupplierID,
			Description: inc.Description,
		}
		if err := s.publisher.PublishIncidentCreated(ctx, event); err != nil {
			s.logger.Error("Failed to publish IncidentCreated event", zap.Error(err))
		}
	}

	finalized := &models.ReceptionFinalizedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeReceptionFinalized,
			Timestamp: time.Now(),
		},
		OrderingID:    eventID,
		FinalStatus:   finalStatus,
		OrderIDs:      orderIDs,
		IncidentCount: len(incidents),
	}
	if err := s.publisher.PublishReceptionFinalized(ctx, finalized); err != nil {
		s.logger.Error("Failed to publish ReceptionFinalized event", zap.Error(err))
	}

	result := "ok"
	if !allOK {
		result = "partial"
	}
	util.ReceptionsFinalizedTotal.WithLabelValues(result).Inc()

	delete(s.sessions, eventID)
	s.logger.Info("Reception finalized",
		zap.String("event_id", eventID),
		zap.String("status", finalStatus),
		zap.Int("incidents", len(incidents)))
	return finalStatus, incidents, nil
}
