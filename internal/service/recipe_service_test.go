package service

import (
	"context"
	"testing"

	"catering-service/internal/models"
	"catering-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeCostPricesAtCheapestActiveSupplier(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewRecipeService(st)

	seedProduct(t, st, "p1", "Tomato", "TOM-1", 0,
		models.ProductSupplier{SupplierID: "s1", Price: 2, Status: models.StatusActive},
		models.ProductSupplier{SupplierID: "s2", Price: 1.5, Status: models.StatusActive})
	seedProduct(t, st, "p2", "Chicken", "CHK-1", 0,
		models.ProductSupplier{SupplierID: "s2", Price: 5, Status: models.StatusActive})

	recipe, err := st.AddRecipe(ctx, models.Recipe{
		Name: "Chicken with tomato", Servings: 4,
		Ingredients: []models.Ingredient{
			{ProductID: "p1", Quantity: 0.5, Unit: "kg"},
			{ProductID: "p2", Quantity: 1, Unit: "kg"},
		},
	})
	require.NoError(t, err)

	cost, err := svc.Cost(recipe.ID)
	require.NoError(t, err)
	require.Len(t, cost.Lines, 2)

	// 0.5 x 1.50 + 1 x 5.00
	assert.InDelta(t, 5.75, cost.Total, 0.0001)
	assert.InDelta(t, 1.4375, cost.PerServing, 0.0001)
	assert.Equal(t, 1.5, cost.Lines[0].UnitPrice)
	assert.False(t, cost.Lines[0].Missing)
}

func TestRecipeCostFlagsMissingIngredients(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewRecipeService(st)

	// product with no active supplier
	seedProduct(t, st, "p1", "Milk", "MLK-1", 0,
		models.ProductSupplier{SupplierID: "s1", Price: 1, Status: models.StatusInactive})

	recipe, err := st.AddRecipe(ctx, models.Recipe{
		Name: "Bechamel", Servings: 2,
		Ingredients: []models.Ingredient{
			{ProductID: "p1", Quantity: 1, Unit: "l"},
			{ProductID: "gone", Quantity: 0.2, Unit: "kg"},
		},
	})
	require.NoError(t, err)

	cost, err := svc.Cost(recipe.ID)
	require.NoError(t, err)
	require.Len(t, cost.Lines, 2)
	assert.True(t, cost.Lines[0].Missing)
	assert.True(t, cost.Lines[1].Missing)
	assert.Equal(t, "Unknown", cost.Lines[1].ProductName)
	assert.Zero(t, cost.Total)
}

func TestRecipeCostUnknownRecipe(t *testing.T) {
	st := newTestStore(t)
	svc := NewRecipeService(st)

	_, err := svc.Cost("nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
