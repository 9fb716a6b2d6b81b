package models

import "time"

// Event types published on the broker
const (
	EventTypeOrderSubmitted     = "ORDER_SUBMITTED"
	EventTypeOrdersProcessed    = "ORDERS_PROCESSED"
	EventTypeReceptionFinalized = "RECEPTION_FINALIZED"
	EventTypeIncidentCreated    = "INCIDENT_CREATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderSubmittedEvent published when a teacher submits an order
type OrderSubmittedEvent struct {
	BaseEvent
	OrderID     string `json:"order_id"`
	OrderingID  string `json:"ordering_event_id"`
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
	ItemCount   int    `json:"item_count"`
}

// LineChange describes a quantity edit applied while processing an order
type LineChange struct {
	OrderID     string  `json:"order_id"`
	TeacherID   string  `json:"teacher_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	OldQuantity float64 `json:"old_quantity"`
	NewQuantity float64 `json:"new_quantity"`
	Dropped     bool    `json:"dropped"`
}

// OrdersProcessedEvent published when an ordering window is processed
type OrdersProcessedEvent struct {
	BaseEvent
	OrderingID string       `json:"ordering_event_id"`
	OrderIDs   []string     `json:"order_ids"`
	Changes    []LineChange `json:"changes"`
	TotalCost  float64      `json:"total_cost"`
}

// ReceptionFinalizedEvent published when reception verification completes
type ReceptionFinalizedEvent struct {
	BaseEvent
	OrderingID    string   `json:"ordering_event_id"`
	FinalStatus   string   `json:"final_status"`
	OrderIDs      []string `json:"order_ids"`
	IncidentCount int      `json:"incident_count"`
}

// IncidentCreatedEvent published when a reception incident is recorded
type IncidentCreatedEvent struct {
	BaseEvent
	IncidentID  string `json:"incident_id"`
	OrderingID  string `json:"ordering_event_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SupplierID  string `json:"supplier_id"`
	Description string `json:"description"`
}
