package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"catering-service/internal/kv"
	"catering-service/internal/models"
	"catering-service/internal/util"

	"go.uber.org/zap"
)

// Persistence keys. Every collection lives under one fixed key as a
// single JSON document, rewritten in full after each mutation.
const (
	KeyUsers         = "users"
	KeyUsersAuth     = "users_auth"
	KeyCompanyInfo   = "companyInfo"
	KeySuppliers     = "suppliers"
	KeyProducts      = "products"
	KeyFamilies      = "families"
	KeyCategories    = "categories"
	KeyProductStates = "productStates"
	KeyRecipes       = "recipes"
	KeyServiceGroups = "serviceGroups"
	KeyServices      = "services"
	KeySales         = "sales"
	KeyClassrooms    = "classrooms"
	KeyBackupHistory = "backupHistory"
	KeyMessages      = "messages"
	KeyNotifications = "notifications"
	KeyIncidents     = "incidents"
	KeyMiniEconomato = "miniEconomato"
	KeyEvents        = "events"
	KeyOrders        = "orders"
	KeyOrderItems    = "orderItems"
	KeyCycles        = "cycles"
	KeyModules       = "modules"
	KeyGroups        = "groups"
	KeyAssignments   = "assignments"
	KeyTheme         = "theme"
)

// AllKeys lists every persistence key, in backup-document order
var AllKeys = []string{
	KeyUsers, KeyUsersAuth, KeyCompanyInfo, KeySuppliers, KeyProducts,
	KeyFamilies, KeyCategories, KeyProductStates, KeyRecipes,
	KeyServiceGroups, KeyServices, KeySales, KeyClassrooms,
	KeyBackupHistory, KeyMessages, KeyNotifications, KeyIncidents,
	KeyMiniEconomato, KeyEvents, KeyOrders, KeyOrderItems,
	KeyCycles, KeyModules, KeyGroups, KeyAssignments, KeyTheme,
}

var (
	// ErrNotFound is returned when an entity id does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a uniqueness rule is violated
	ErrDuplicate = errors.New("duplicate")
	// ErrValidation is returned when a required field is missing or invalid
	ErrValidation = errors.New("validation failed")
	// ErrBusinessRule is returned when a domain rule blocks the operation
	ErrBusinessRule = errors.New("business rule violation")
)

// Store holds every domain collection in memory. Collections are loaded
// once at startup from the kv adapter and rewritten to it synchronously
// after each mutation, so memory and the persisted store stay equal.
// A single mutex serializes all access, matching the original
// single-threaded execution model.
type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	logger *zap.Logger

	users         []models.User
	usersAuth     []models.UserAuth
	companyInfo   models.CompanyInfo
	suppliers     []models.Supplier
	products      []models.Product
	families      []models.Family
	categories    []models.Category
	productStates []models.ProductState
	recipes       []models.Recipe
	serviceGroups []models.ServiceGroup
	services      []models.Service
	sales         []models.Sale
	classrooms    []models.Classroom
	backupHistory []models.BackupRecord
	messages      []models.Message
	notifications []models.Notification
	incidents     []models.Incident
	miniEconomato []models.MiniEconomatoItem
	events        []models.Event
	orders        []models.Order
	orderItems    []models.OrderItem
	cycles        []models.Cycle
	modules       []models.Module
	groups        []models.Group
	assignments   []models.Assignment
	theme         string
}

// New loads every collection from the kv adapter
func New(ctx context.Context, kvStore kv.Store) (*Store, error) {
	s := &Store{
		kv:     kvStore,
		logger: util.GetLogger(),
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	targets := map[string]interface{}{
		KeyUsers:         &s.users,
		KeyUsersAuth:     &s.usersAuth,
		KeyCompanyInfo:   &s.companyInfo,
		KeySuppliers:     &s.suppliers,
		KeyProducts:      &s.products,
		KeyFamilies:      &s.families,
		KeyCategories:    &s.categories,
		KeyProductStates: &s.productStates,
		KeyRecipes:       &s.recipes,
		KeyServiceGroups: &s.serviceGroups,
		KeyServices:      &s.services,
		KeySales:         &s.sales,
		KeyClassrooms:    &s.classrooms,
		KeyBackupHistory: &s.backupHistory,
		KeyMessages:      &s.messages,
		KeyNotifications: &s.notifications,
		KeyIncidents:     &s.incidents,
		KeyMiniEconomato: &s.miniEconomato,
		KeyEvents:        &s.events,
		KeyOrders:        &s.orders,
		KeyOrderItems:    &s.orderItems,
		KeyCycles:        &s.cycles,
		KeyModules:       &s.modules,
		KeyGroups:        &s.groups,
		KeyAssignments:   &s.assignments,
		KeyTheme:         &s.theme,
	}
	for key, dest := range targets {
		if err := kv.GetJSON(ctx, s.kv, key, dest); err != nil {
			return fmt.Errorf("failed to load collection: %w", err)
		}
	}
	return nil
}

// persist writes one collection back to the kv adapter. Callers hold the mutex.
func (s *Store) persist(ctx context.Context, key string, value interface{}) error {
	if err := kv.SetJSON(ctx, s.kv, key, value); err != nil {
		s.logger.Error("Failed to persist collection",
			zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Export reads every persisted collection as raw JSON, for backup bundling
func (s *Store) Export(ctx context.Context) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := make(map[string]json.RawMessage, len(AllKeys))
	for _, key := range AllKeys {
		raw, err := s.kv.Get(ctx, key)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to export %q: %w", key, err)
		}
		doc[key] = raw
	}
	return doc, nil
}

// Restore overwrites every key wholesale from a backup document and
// reloads the in-memory collections. Validation happens at the caller.
func (s *Store) Restore(ctx context.Context, doc map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range AllKeys {
		raw, ok := doc[key]
		if !ok {
			if err := s.kv.Delete(ctx, key); err != nil {
				return fmt.Errorf("failed to clear %q: %w", key, err)
			}
			continue
		}
		if err := s.kv.Set(ctx, key, raw); err != nil {
			return fmt.Errorf("failed to restore %q: %w", key, err)
		}
	}

	fresh := &Store{kv: s.kv, logger: s.logger}
	if err := fresh.load(ctx); err != nil {
		return fmt.Errorf("failed to reload after restore: %w", err)
	}
	s.copyCollectionsFrom(fresh)
	return nil
}

func (s *Store) copyCollectionsFrom(o *Store) {
	s.users = o.users
	s.usersAuth = o.usersAuth
	s.companyInfo = o.companyInfo
	s.suppliers = o.suppliers
	s.products = o.products
	s.families = o.families
	s.categories = o.categories
	s.productStates = o.productStates
	s.recipes = o.recipes
	s.serviceGroups = o.serviceGroups
	s.services = o.services
	s.sales = o.sales
	s.classrooms = o.classrooms
	s.backupHistory = o.backupHistory
	s.messages = o.messages
	s.notifications = o.notifications
	s.incidents = o.incidents
	s.miniEconomato = o.miniEconomato
	s.events = o.events
	s.orders = o.orders
	s.orderItems = o.orderItems
	s.cycles = o.cycles
	s.modules = o.modules
	s.groups = o.groups
	s.assignments = o.assignments
	s.theme = o.theme
}
