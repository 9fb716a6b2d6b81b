package store

import (
	"context"
	"testing"

	"catering-service/internal/kv"
	"catering-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	backend := kv.NewMemoryStore()
	s, err := New(context.Background(), backend)
	require.NoError(t, err)
	return s, backend
}

func TestAddSupplierRequiresName(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddSupplier(context.Background(), models.Supplier{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSupplierCRUDPersists(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	created, err := s.AddSupplier(ctx, models.Supplier{Name: "Frutas Juan"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusActive, created.Status)

	// a fresh store loaded from the same backend sees the supplier
	reloaded, err := New(ctx, backend)
	require.NoError(t, err)
	got, err := reloaded.SupplierByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frutas Juan", got.Name)
}

func TestDeleteSupplierCascadesProductLinks(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	sup, err := s.AddSupplier(ctx, models.Supplier{Name: "Lacteos SA"})
	require.NoError(t, err)
	keep, err := s.AddSupplier(ctx, models.Supplier{Name: "Otro"})
	require.NoError(t, err)

	p, err := s.AddProduct(ctx, models.Product{
		Name:      "Milk",
		Reference: "MLK-1",
		Suppliers: []models.ProductSupplier{
			{SupplierID: sup.ID, Price: 1.2, Status: models.StatusActive},
			{SupplierID: keep.ID, Price: 1.5, Status: models.StatusActive},
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteSupplier(ctx, sup.ID))

	got, err := s.ProductByID(p.ID)
	require.NoError(t, err)
	require.Len(t, got.Suppliers, 1)
	assert.Equal(t, keep.ID, got.Suppliers[0].SupplierID)
}

func TestDeleteSupplierLeavesSnapshotsIntact(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	sup, err := s.AddSupplier(ctx, models.Supplier{Name: "Lacteos SA"})
	require.NoError(t, err)
	keep, err := s.AddSupplier(ctx, models.Supplier{Name: "Otro"})
	require.NoError(t, err)

	_, err = s.AddProduct(ctx, models.Product{
		Name:      "Milk",
		Reference: "MLK-1",
		Suppliers: []models.ProductSupplier{
			{SupplierID: sup.ID, Price: 1.2, Status: models.StatusActive},
			{SupplierID: keep.ID, Price: 1.5, Status: models.StatusActive},
		},
	})
	require.NoError(t, err)

	before := s.Products()
	require.Len(t, before[0].Suppliers, 2)

	require.NoError(t, s.DeleteSupplier(ctx, sup.ID))

	// the snapshot taken before the delete keeps its supplier links
	require.Len(t, before[0].Suppliers, 2)
	assert.Equal(t, sup.ID, before[0].Suppliers[0].SupplierID)
	assert.Equal(t, keep.ID, before[0].Suppliers[1].SupplierID)
}

func TestProductReferenceUniqueness(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.AddProduct(ctx, models.Product{Name: "Flour", Reference: "FLR-1"})
	require.NoError(t, err)

	// case-insensitive collision leaves the catalog unchanged
	_, err = s.AddProduct(ctx, models.Product{Name: "Flour 2", Reference: "flr-1"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Len(t, s.Products(), 1)

	other, err := s.AddProduct(ctx, models.Product{Name: "Sugar", Reference: "SGR-1"})
	require.NoError(t, err)
	other.Reference = "FLR-1"
	assert.ErrorIs(t, s.UpdateProduct(ctx, other), ErrDuplicate)
}

func TestCreateOrderUniquePerTeacherAndEvent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.CreateOrder(ctx, models.Order{EventID: "e1", TeacherID: "t1"})
	require.NoError(t, err)

	_, err = s.CreateOrder(ctx, models.Order{EventID: "e1", TeacherID: "t1"})
	assert.ErrorIs(t, err, ErrDuplicate)

	// same teacher, different event is fine
	_, err = s.CreateOrder(ctx, models.Order{EventID: "e2", TeacherID: "t1"})
	assert.NoError(t, err)
}

func TestEconomatoOrdersExemptFromUniqueness(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.CreateOrder(ctx, models.Order{EventID: "e1", TeacherID: "t1"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = s.CreateOrder(ctx, models.Order{
			EventID: "e1", TeacherID: "t1", Type: models.OrderTypeEconomato,
		})
		require.NoError(t, err)
	}
	assert.Len(t, s.Orders(), 4)
}

func TestDeleteOrderCascadesItems(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	order, err := s.CreateOrderWithItems(ctx,
		models.Order{EventID: "e1", TeacherID: "t1"},
		[]models.OrderItem{
			{ProductName: "Milk", Quantity: 2},
			{ProductName: "Eggs", Quantity: 12},
		})
	require.NoError(t, err)
	require.Len(t, s.ItemsByOrder(order.ID), 2)

	require.NoError(t, s.DeleteOrder(ctx, order.ID))
	assert.Empty(t, s.ItemsByOrder(order.ID))
	assert.Empty(t, s.OrderItems())
}

func TestAddNotificationIdempotentPerSource(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	n := models.Notification{UserID: "u1", Kind: models.NotificationOrderChanged, SourceID: "src-1"}
	first, err := s.AddNotification(ctx, n)
	require.NoError(t, err)
	second, err := s.AddNotification(ctx, n)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, s.NotificationsForUser("u1"), 1)
}

func TestMarkMessageReadOnceOnly(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	msg, err := s.AddMessage(ctx, models.Message{
		SenderID: "u1", RecipientIDs: []string{"u2"}, Subject: "hi",
	})
	require.NoError(t, err)

	require.NoError(t, s.MarkMessageRead(ctx, msg.ID, "u2"))
	require.NoError(t, s.MarkMessageRead(ctx, msg.ID, "u2"))

	got := s.MessagesForUser("u2")
	require.Len(t, got, 1)
	assert.Equal(t, []string{"u2"}, got[0].ReadBy)
}

func TestAdjustMiniEconomatoStockRejectsOverdraw(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.UpsertMiniEconomatoItem(ctx, models.MiniEconomatoItem{
		ProductID: "p1", CurrentStock: 5, MinStock: 2,
	}))

	_, err := s.AdjustMiniEconomatoStock(ctx, "p1", -6)
	assert.ErrorIs(t, err, ErrBusinessRule)

	item, err := s.MiniEconomatoItem("p1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, item.CurrentStock)

	item, err = s.AdjustMiniEconomatoStock(ctx, "p1", -5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, item.CurrentStock)
}

func TestActiveRegularEventPicksFirstActive(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.ActiveRegularEvent()
	assert.ErrorIs(t, err, ErrBusinessRule)

	_, err = s.AddEvent(ctx, models.Event{ID: "e1", Name: "w1", Type: models.EventTypeRegular, Status: models.EventStatusClosed})
	require.NoError(t, err)
	_, err = s.AddEvent(ctx, models.Event{ID: "e2", Name: "w2", Type: models.EventTypeRegular, Status: models.EventStatusActive})
	require.NoError(t, err)
	_, err = s.AddEvent(ctx, models.Event{ID: "e3", Name: "w3", Type: models.EventTypeRegular, Status: models.EventStatusActive})
	require.NoError(t, err)

	active, err := s.ActiveRegularEvent()
	require.NoError(t, err)
	assert.Equal(t, "e2", active.ID)
}

func TestExportRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.AddUser(ctx, models.User{Name: "Ana", Email: "ana@school.test", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, s.SetTheme(ctx, "dark"))
	sup, err := s.AddSupplier(ctx, models.Supplier{Name: "Frutas Juan"})
	require.NoError(t, err)

	doc, err := s.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, doc, KeyUsers)
	assert.Contains(t, doc, KeyTheme)

	// mutate after the export, then restore the snapshot
	require.NoError(t, s.DeleteSupplier(ctx, sup.ID))
	require.NoError(t, s.SetTheme(ctx, "light"))

	require.NoError(t, s.Restore(ctx, doc))
	assert.Equal(t, "dark", s.Theme())
	got, err := s.SupplierByID(sup.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frutas Juan", got.Name)
}

func TestUserNameFallback(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, "Unknown", s.UserName("missing"))
}
