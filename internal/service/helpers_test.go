package service

import (
	"context"
	"testing"

	"catering-service/internal/kv"
	"catering-service/internal/models"
	"catering-service/internal/store"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), kv.NewMemoryStore())
	require.NoError(t, err)
	return s
}

// seedProduct inserts a product with one supplier per (id, price, status)
// triple, in the given order.
func seedProduct(t *testing.T, st *store.Store, id, name, reference string, tax float64, suppliers ...models.ProductSupplier) models.Product {
	t.Helper()
	p, err := st.AddProduct(context.Background(), models.Product{
		ID:        id,
		Name:      name,
		Reference: reference,
		Unit:      "kg",
		Tax:       tax,
		Suppliers: suppliers,
	})
	require.NoError(t, err)
	return p
}

func seedActiveEvent(t *testing.T, st *store.Store, id string) models.Event {
	t.Helper()
	e, err := st.AddEvent(context.Background(), models.Event{
		ID:     id,
		Name:   "Weekly order",
		Type:   models.EventTypeRegular,
		Status: models.EventStatusActive,
	})
	require.NoError(t, err)
	return e
}

// seedSubmittedOrder creates an order already in Submitted state with
// one item per (productID, quantity) pair.
func seedSubmittedOrder(t *testing.T, st *store.Store, eventID, teacherID string, lines map[string]float64) models.Order {
	t.Helper()
	ctx := context.Background()

	var items []models.OrderItem
	for productID, qty := range lines {
		product, err := st.ProductByID(productID)
		require.NoError(t, err)
		items = append(items, models.OrderItem{
			ProductID:   productID,
			ProductName: product.Name,
			Quantity:    qty,
			Unit:        product.Unit,
		})
	}
	order, err := st.CreateOrderWithItems(ctx, models.Order{
		EventID:   eventID,
		TeacherID: teacherID,
		Status:    models.OrderStatusSubmitted,
	}, items)
	require.NoError(t, err)
	return order
}
