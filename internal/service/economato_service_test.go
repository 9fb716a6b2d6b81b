package service

import (
	"context"
	"testing"

	"catering-service/internal/models"
	"catering-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func economatoFixture(t *testing.T) (*EconomatoService, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	seedActiveEvent(t, st, "e1")
	seedProduct(t, st, "p1", "Olive oil", "OIL-1", 10,
		models.ProductSupplier{SupplierID: "s1", Price: 4, Status: models.StatusActive})
	svc := NewEconomatoService(st)
	require.NoError(t, svc.SetStock(context.Background(), models.MiniEconomatoItem{
		ProductID: "p1", CurrentStock: 10, MinStock: 3,
	}))
	return svc, st
}

func TestSetStockRejectsUnknownProduct(t *testing.T) {
	st := newTestStore(t)
	svc := NewEconomatoService(st)

	err := svc.SetStock(context.Background(), models.MiniEconomatoItem{ProductID: "ghost"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetStockRejectsNegativeQuantities(t *testing.T) {
	svc, _ := economatoFixture(t)
	err := svc.SetStock(context.Background(), models.MiniEconomatoItem{
		ProductID: "p1", CurrentStock: -1,
	})
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestLowStock(t *testing.T) {
	svc, st := economatoFixture(t)
	assert.Empty(t, svc.LowStock())

	_, err := st.AdjustMiniEconomatoStock(context.Background(), "p1", -8)
	require.NoError(t, err)

	low := svc.LowStock()
	require.Len(t, low, 1)
	assert.Equal(t, "p1", low[0].ProductID)
}

func TestAssignExpenseDrawsStockAndSynthesizesOrder(t *testing.T) {
	ctx := context.Background()
	svc, st := economatoFixture(t)

	order, err := svc.AssignExpense(ctx, &AssignExpenseRequest{
		ProductID: "p1", Quantity: 2, UserID: "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, "e1", order.EventID)
	assert.Equal(t, models.OrderTypeEconomato, order.Type)
	assert.Equal(t, models.OrderStatusProcessed, order.Status)
	// 2 x 4.00 with 10% tax
	assert.InDelta(t, 8.8, order.TotalCost, 0.0001)

	item, err := st.MiniEconomatoItem("p1")
	require.NoError(t, err)
	assert.Equal(t, 8.0, item.CurrentStock)

	items := st.ItemsByOrder(order.ID)
	require.Len(t, items, 1)
	assert.Equal(t, "s1", items[0].SupplierID)
	assert.Equal(t, 4.0, items[0].UnitPrice)
}

func TestAssignExpenseRepeatable(t *testing.T) {
	ctx := context.Background()
	svc, st := economatoFixture(t)

	_, err := svc.AssignExpense(ctx, &AssignExpenseRequest{ProductID: "p1", Quantity: 2, UserID: "u1"})
	require.NoError(t, err)
	_, err = svc.AssignExpense(ctx, &AssignExpenseRequest{ProductID: "p1", Quantity: 3, UserID: "u1"})
	require.NoError(t, err)

	item, err := st.MiniEconomatoItem("p1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, item.CurrentStock)
	assert.Len(t, st.Orders(), 2)
}

func TestAssignExpenseInsufficientStock(t *testing.T) {
	ctx := context.Background()
	svc, st := economatoFixture(t)

	_, err := svc.AssignExpense(ctx, &AssignExpenseRequest{ProductID: "p1", Quantity: 11, UserID: "u1"})
	assert.ErrorIs(t, err, store.ErrBusinessRule)

	// nothing mutated
	item, err := st.MiniEconomatoItem("p1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, item.CurrentStock)
	assert.Empty(t, st.Orders())
}

func TestAssignExpenseRequiresActiveEvent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedProduct(t, st, "p1", "Olive oil", "OIL-1", 10,
		models.ProductSupplier{SupplierID: "s1", Price: 4, Status: models.StatusActive})
	svc := NewEconomatoService(st)
	require.NoError(t, svc.SetStock(ctx, models.MiniEconomatoItem{ProductID: "p1", CurrentStock: 10}))

	_, err := svc.AssignExpense(ctx, &AssignExpenseRequest{ProductID: "p1", Quantity: 1, UserID: "u1"})
	assert.ErrorIs(t, err, store.ErrBusinessRule)

	item, err := st.MiniEconomatoItem("p1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, item.CurrentStock)
}
