package service

import (
	"context"
	"testing"

	"catering-service/internal/broker"
	"catering-service/internal/models"
	"catering-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// receptionFixture processes one submitted order of 15 units of p1 so a
// session can be opened against the event.
func receptionFixture(t *testing.T) (*ReceptionService, *store.Store, models.Order) {
	t.Helper()
	ctx := context.Background()
	st := newTestStore(t)

	seedActiveEvent(t, st, "e1")
	seedProduct(t, st, "p1", "Tomato", "TOM-1", 0,
		models.ProductSupplier{SupplierID: "s1", Price: 2, Status: models.StatusActive})
	order := seedSubmittedOrder(t, st, "e1", "t1", map[string]float64{"p1": 15})

	procurement := NewProcurementService(st, broker.NopPublisher{})
	_, err := procurement.ProcessEvent(ctx, "e1", nil)
	require.NoError(t, err)

	return NewReceptionService(st, broker.NopPublisher{}), st, order
}

func TestStartSessionRequiresProcessedOrders(t *testing.T) {
	st := newTestStore(t)
	svc := NewReceptionService(st, broker.NopPublisher{})
	seedActiveEvent(t, st, "e1")

	_, err := svc.StartSession(context.Background(), "e1")
	assert.ErrorIs(t, err, store.ErrBusinessRule)
}

func TestStartSessionPrefillsOrderedQuantities(t *testing.T) {
	svc, _, _ := receptionFixture(t)

	session, err := svc.StartSession(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, session.Lines, 1)

	line := session.Lines[0]
	assert.Equal(t, 15.0, line.OrderedQuantity)
	assert.Equal(t, 15.0, line.ReceivedQuantity)
	assert.Equal(t, models.ReceptionPending, line.Status)

	// reopening returns the same session state
	again, err := svc.StartSession(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, session.EventID, again.EventID)
	assert.Equal(t, session.Lines, again.Lines)
}

func TestStartSessionReturnsDetachedCopy(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := receptionFixture(t)

	before, err := svc.StartSession(ctx, "e1")
	require.NoError(t, err)

	_, err = svc.SetReceived("e1", "p1", 12)
	require.NoError(t, err)

	// the earlier snapshot keeps its pre-update values
	assert.Equal(t, 15.0, before.Lines[0].ReceivedQuantity)

	// mutating a snapshot never reaches the service state
	before.Lines[0].Status = models.ReceptionOK
	after, err := svc.Session("e1")
	require.NoError(t, err)
	assert.Equal(t, models.ReceptionPending, after.Lines[0].Status)
	assert.Equal(t, 12.0, after.Lines[0].ReceivedQuantity)
}

func TestReceptionAllOKFinalizesReceivedOK(t *testing.T) {
	ctx := context.Background()
	svc, st, order := receptionFixture(t)
	_, err := svc.StartSession(ctx, "e1")
	require.NoError(t, err)

	line, err := svc.MarkOK("e1", "p1")
	require.NoError(t, err)
	assert.Equal(t, models.ReceptionOK, line.Status)

	status, incidents, err := svc.Finalize(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReceivedOK, status)
	assert.Empty(t, incidents)

	got, err := st.OrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReceivedOK, got.Status)

	// the session is gone after finalize
	_, err = svc.Session("e1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReceptionShortageFinalizesPartial(t *testing.T) {
	ctx := context.Background()
	svc, st, order := receptionFixture(t)
	_, err := svc.StartSession(ctx, "e1")
	require.NoError(t, err)

	line, err := svc.SetReceived("e1", "p1", 12)
	require.NoError(t, err)
	assert.Equal(t, models.ReceptionPartial, line.Status)

	status, incidents, err := svc.Finalize(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReceivedPartial, status)
	assert.Empty(t, incidents)

	got, err := st.OrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReceivedPartial, got.Status)
}

func TestReceptionIncidentIsSticky(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := receptionFixture(t)
	_, err := svc.StartSession(ctx, "e1")
	require.NoError(t, err)

	line, err := svc.MarkIncident("e1", "p1", "boxes arrived crushed")
	require.NoError(t, err)
	assert.Equal(t, models.ReceptionIncident, line.Status)

	// a quantity edit does not clear the incident flag
	line, err = svc.SetReceived("e1", "p1", 15)
	require.NoError(t, err)
	assert.Equal(t, models.ReceptionIncident, line.Status)

	// explicit MarkOK does
	line, err = svc.MarkOK("e1", "p1")
	require.NoError(t, err)
	assert.Equal(t, models.ReceptionOK, line.Status)

	status, incidents, err := svc.Finalize(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReceivedOK, status)
	assert.Empty(t, incidents)
}

func TestReceptionIncidentRecordedAtFinalize(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := receptionFixture(t)
	_, err := svc.StartSession(ctx, "e1")
	require.NoError(t, err)

	_, err = svc.MarkIncident("e1", "p1", "wrong variety delivered")
	require.NoError(t, err)

	status, incidents, err := svc.Finalize(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReceivedPartial, status)
	require.Len(t, incidents, 1)
	assert.Equal(t, "wrong variety delivered", incidents[0].Description)
	assert.Equal(t, "s1", incidents[0].SupplierID)

	// the incident lands in the global log
	require.Len(t, st.Incidents(), 1)
}

func TestFinalizeBlockedWhilePending(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := receptionFixture(t)
	_, err := svc.StartSession(ctx, "e1")
	require.NoError(t, err)

	_, _, err = svc.Finalize(ctx, "e1")
	assert.ErrorIs(t, err, store.ErrBusinessRule)

	// the session survives the failed finalize
	_, err = svc.Session("e1")
	assert.NoError(t, err)
}

func TestSetReceivedRejectsNegative(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := receptionFixture(t)
	_, err := svc.StartSession(ctx, "e1")
	require.NoError(t, err)

	_, err = svc.SetReceived("e1", "p1", -1)
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestMarkIncidentFallsBackToUnknownSupplier(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	seedActiveEvent(t, st, "e1")
	// product with no active supplier at all
	seedProduct(t, st, "p1", "Tomato", "TOM-1", 0,
		models.ProductSupplier{SupplierID: "s1", Price: 2, Status: models.StatusInactive})

	_, err := st.CreateOrderWithItems(ctx, models.Order{
		EventID: "e1", TeacherID: "t1", Status: models.OrderStatusProcessed,
	}, []models.OrderItem{{ProductID: "p1", ProductName: "Tomato", Quantity: 5}})
	require.NoError(t, err)

	svc := NewReceptionService(st, broker.NopPublisher{})
	_, err = svc.StartSession(ctx, "e1")
	require.NoError(t, err)
	_, err = svc.MarkIncident("e1", "p1", "never delivered")
	require.NoError(t, err)

	_, incidents, err := svc.Finalize(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, models.UnknownSupplierID, incidents[0].SupplierID)
}
