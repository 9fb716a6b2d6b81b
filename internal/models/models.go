package models

import "time"

// Event types
const (
	EventTypeRegular       = "REGULAR"
	EventTypeExtraordinary = "EXTRAORDINARY"
)

// Event statuses
const (
	EventStatusInactive  = "INACTIVE"
	EventStatusScheduled = "SCHEDULED"
	EventStatusActive    = "ACTIVE"
	EventStatusClosed    = "CLOSED"
)

// Event represents a weekly or extraordinary ordering window
type Event struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Type                 string    `json:"type"`
	Status               string    `json:"status"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	Budget               float64   `json:"budget"`
	AuthorizedTeacherIDs []string  `json:"authorized_teacher_ids"`
}

// Order statuses
const (
	OrderStatusDraft           = "DRAFT"
	OrderStatusSubmitted       = "SUBMITTED"
	OrderStatusProcessed       = "PROCESSED"
	OrderStatusReceivedOK      = "RECEIVED_OK"
	OrderStatusReceivedPartial = "RECEIVED_PARTIAL"
)

// OrderTypeEconomato marks orders synthesized by the mini-economato
// expense assignment. They are exempt from the one-order-per-teacher
// rule that applies to regular teacher orders.
const OrderTypeEconomato = "ECONOMATO"

// Order represents a per-teacher order against an event
type Order struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	TeacherID string    `json:"teacher_id"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	Type      string    `json:"type,omitempty"`
	TotalCost float64   `json:"total_cost"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem represents one line of an order. ProductID is empty for
// out-of-catalog requests.
type OrderItem struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"order_id"`
	ProductID    string  `json:"product_id,omitempty"`
	ProductName  string  `json:"product_name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	OutOfCatalog bool    `json:"out_of_catalog"`
	SupplierID   string  `json:"supplier_id,omitempty"`
	UnitPrice    float64 `json:"unit_price,omitempty"`
}

// Supplier / product statuses
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// ProductSupplier links a product to a supplier with a negotiated price
type ProductSupplier struct {
	SupplierID string  `json:"supplier_id"`
	Price      float64 `json:"price"`
	Status     string  `json:"status"`
}

// Product represents a catalog product
type Product struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Reference       string            `json:"reference"`
	Unit            string            `json:"unit"`
	Family          string            `json:"family,omitempty"`
	Category        string            `json:"category,omitempty"`
	Tax             float64           `json:"tax"`
	Suppliers       []ProductSupplier `json:"suppliers"`
	Status          string            `json:"status"`
	ProductState    string            `json:"product_state,omitempty"`
	WarehouseStatus string            `json:"warehouse_status,omitempty"`
	Allergens       []string          `json:"allergens,omitempty"`
}

// Supplier represents a goods supplier
type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CIF     string `json:"cif"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Status  string `json:"status"`
}

// UnknownSupplierID is the sentinel used when an incident cannot be
// attributed to any active supplier.
const UnknownSupplierID = "unknown"

// Incident records a reception discrepancy for one product line
type Incident struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	SupplierID   string    `json:"supplier_id"`
	Date         time.Time `json:"date"`
	Description  string    `json:"description"`
	OrderItemIDs []string  `json:"order_item_ids"`
}

// MiniEconomatoItem is one stock line of the internal small-stock buffer
type MiniEconomatoItem struct {
	ProductID    string  `json:"product_id"`
	CurrentStock float64 `json:"current_stock"`
	MinStock     float64 `json:"min_stock"`
}

// ClassroomData is the isolated sandbox dataset owned by one classroom.
// It shares no identity with the global collections.
type ClassroomData struct {
	Suppliers  []Supplier  `json:"suppliers"`
	Products   []Product   `json:"products"`
	Events     []Event     `json:"events"`
	Orders     []Order     `json:"orders"`
	OrderItems []OrderItem `json:"order_items"`
	Incidents  []Incident  `json:"incidents"`
	Recipes    []Recipe    `json:"recipes"`
	Families   []Family    `json:"families"`
	Categories []Category  `json:"categories"`
}

// Classroom represents a sandbox training classroom
type Classroom struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	TeacherID  string        `json:"teacher_id"`
	StudentIDs []string      `json:"student_ids"`
	Data       ClassroomData `json:"data"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Message is an append-only message with per-recipient read tracking
type Message struct {
	ID           string    `json:"id"`
	SenderID     string    `json:"sender_id"`
	RecipientIDs []string  `json:"recipient_ids"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
	ReadBy       []string  `json:"read_by"`
}

// Notification kinds
const (
	NotificationOrderChanged  = "ORDER_CHANGED"
	NotificationOrderReceived = "ORDER_RECEIVED"
	NotificationIncident      = "INCIDENT"
	NotificationGeneric       = "GENERIC"
)

// Notification is a per-user notification entry
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Body      string    `json:"body"`
	SourceID  string    `json:"source_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

// User roles
const (
	RoleAdmin   = "admin"
	RoleCreator = "creator"
	RoleManager = "manager"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User represents an application user
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// UserAuth holds login credentials, kept separate from the user profile
type UserAuth struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// CompanyInfo holds school/company presentation data
type CompanyInfo struct {
	Name    string `json:"name"`
	CIF     string `json:"cif,omitempty"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Theme   string `json:"theme,omitempty"`
}

// Family is a product family taxonomy entry
type Family struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is a product category taxonomy entry
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductState is a product conservation-state taxonomy entry
type ProductState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ingredient is one recipe line referencing a catalog product
type Ingredient struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
}

// Recipe represents a costed kitchen recipe
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Servings    int          `json:"servings"`
	Ingredients []Ingredient `json:"ingredients"`
	Notes       string       `json:"notes,omitempty"`
}

// ServiceGroup groups planned services
type ServiceGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Service is a planned catering service on a date
type Service struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id,omitempty"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	RecipeIDs []string  `json:"recipe_ids"`
	Diners    int       `json:"diners"`
}

// Sale records a point-of-sale ticket (creator dashboards)
type Sale struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Item   string    `json:"item"`
	Amount float64   `json:"amount"`
}

// Cycle, Module, Group and Assignment model the academic structure
type Cycle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Module struct {
	ID      string `json:"id"`
	CycleID string `json:"cycle_id"`
	Name    string `json:"name"`
}

type Group struct {
	ID       string `json:"id"`
	ModuleID string `json:"module_id"`
	Name     string `json:"name"`
}

type Assignment struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	TeacherID string `json:"teacher_id"`
}

// BackupRecord is one entry of the backup history log
type BackupRecord struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// ReceptionLineStatus is the explicit tagged state of one reception line
type ReceptionLineStatus string

const (
	ReceptionPending  ReceptionLineStatus = "PENDING"
	ReceptionOK       ReceptionLineStatus = "OK"
	ReceptionPartial  ReceptionLineStatus = "PARTIAL"
	ReceptionIncident ReceptionLineStatus = "INCIDENT"
)

// ReceptionLine is one product line of a reception session
type ReceptionLine struct {
	ProductID        string              `json:"product_id"`
	ProductName      string              `json:"product_name"`
	Unit             string              `json:"unit"`
	OrderedQuantity  float64             `json:"ordered_quantity"`
	ReceivedQuantity float64             `json:"received_quantity"`
	Status           ReceptionLineStatus `json:"status"`
	OrderItemIDs     []string            `json:"order_item_ids"`
}
