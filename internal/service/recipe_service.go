package service

import (
	"catering-service/internal/store"
)

// RecipeService computes recipe costs from the catalog
type RecipeService struct {
	store *store.Store
}

// NewRecipeService creates a new recipe service
func NewRecipeService(st *store.Store) *RecipeService {
	return &RecipeService{store: st}
}

// IngredientCost is the costing breakdown of one recipe line
type IngredientCost struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Cost        float64 `json:"cost"`
	// Missing flags ingredients whose product is gone from the catalog
	// or has no active supplier; they cost zero but must be resolved.
	Missing bool `json:"missing"`
}

// RecipeCost is the full costing of one recipe
type RecipeCost struct {
	RecipeID   string           `json:"recipe_id"`
	Name       string           `json:"name"`
	Servings   int              `json:"servings"`
	Lines      []IngredientCost `json:"lines"`
	Total      float64          `json:"total"`
	PerServing float64          `json:"per_serving"`
}

// Cost prices every ingredient at its cheapest active supplier
func (s *RecipeService) Cost(recipeID string) (*RecipeCost, error) {
	recipe, err := s.store.RecipeByID(recipeID)
	if err != nil {
		return nil, err
	}

	cost := &RecipeCost{
		RecipeID: recipe.ID,
		Name:     recipe.Name,
		Servings: recipe.Servings,
	}
	for _, ing := range recipe.Ingredients {
		line := IngredientCost{
			ProductID: ing.ProductID,
			Quantity:  ing.Quantity,
			Unit:      ing.Unit,
		}
		product, err := s.store.ProductByID(ing.ProductID)
		if err != nil {
			line.ProductName = "Unknown"
			line.Missing = true
			cost.Lines = append(cost.Lines, line)
			continue
		}
		line.ProductName = product.Name
		best, ok := BestSupplier(product)
		if !ok {
			line.Missing = true
			cost.Lines = append(cost.Lines, line)
			continue
		}
		line.UnitPrice = best.Price
		line.Cost = best.Price * ing.Quantity
		cost.Total += line.Cost
		cost.Lines = append(cost.Lines, line)
	}
	if recipe.Servings > 0 {
		cost.PerServing = cost.Total / float64(recipe.Servings)
	}
	return cost, nil
}
