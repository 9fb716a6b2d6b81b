package store

import (
	"context"
	"fmt"
	"strings"

	"catering-service/internal/models"

	"github.com/google/uuid"
)

// Suppliers returns a copy of the supplier collection
func (s *Store) Suppliers() []models.Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Supplier(nil), s.suppliers...)
}

// SupplierByID looks up a supplier
func (s *Store) SupplierByID(id string) (models.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sup := range s.suppliers {
		if sup.ID == id {
			return sup, nil
		}
	}
	return models.Supplier{}, fmt.Errorf("supplier %s: %w", id, ErrNotFound)
}

// AddSupplier inserts a new supplier
func (s *Store) AddSupplier(ctx context.Context, sup models.Supplier) (models.Supplier, error) {
	if sup.Name == "" {
		return models.Supplier{}, fmt.Errorf("supplier name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if sup.ID == "" {
		sup.ID = uuid.New().String()
	}
	if sup.Status == "" {
		sup.Status = models.StatusActive
	}
	s.suppliers = append(s.suppliers, sup)
	if err := s.persist(ctx, KeySuppliers, s.suppliers); err != nil {
		return models.Supplier{}, err
	}
	return sup, nil
}

// UpdateSupplier replaces an existing supplier
func (s *Store) UpdateSupplier(ctx context.Context, sup models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.suppliers {
		if s.suppliers[i].ID == sup.ID {
			s.suppliers[i] = sup
			return s.persist(ctx, KeySuppliers, s.suppliers)
		}
	}
	return fmt.Errorf("supplier %s: %w", sup.ID, ErrNotFound)
}

// DeleteSupplier removes a supplier and cascades removal of every
// product-supplier entry referencing it. Products left without
// suppliers are kept.
func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.suppliers {
		if s.suppliers[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("supplier %s: %w", id, ErrNotFound)
	}
	s.suppliers = append(s.suppliers[:idx], s.suppliers[idx+1:]...)

	productsTouched := false
	for i := range s.products {
		kept := make([]models.ProductSupplier, 0, len(s.products[i].Suppliers))
		for _, ps := range s.products[i].Suppliers {
			if ps.SupplierID != id {
				kept = append(kept, ps)
			}
		}
		if len(kept) != len(s.products[i].Suppliers) {
			s.products[i].Suppliers = kept
			productsTouched = true
		}
	}

	if err := s.persist(ctx, KeySuppliers, s.suppliers); err != nil {
		return err
	}
	if productsTouched {
		return s.persist(ctx, KeyProducts, s.products)
	}
	return nil
}

// Products returns a copy of the product collection
func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.products...)
}

// ProductByID looks up a product
func (s *Store) ProductByID(id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productByIDLocked(id)
}

func (s *Store) productByIDLocked(id string) (models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

func (s *Store) referenceTakenLocked(reference, excludeID string) bool {
	for _, p := range s.products {
		if p.ID != excludeID && strings.EqualFold(p.Reference, reference) {
			return true
		}
	}
	return false
}

// AddProduct inserts a new product, enforcing reference uniqueness
func (s *Store) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if p.Name == "" || p.Reference == "" {
		return models.Product{}, fmt.Errorf("product name and reference are required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.referenceTakenLocked(p.Reference, "") {
		return models.Product{}, fmt.Errorf("reference %q already in use: %w", p.Reference, ErrDuplicate)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	s.products = append(s.products, p)
	if err := s.persist(ctx, KeyProducts, s.products); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// UpdateProduct replaces an existing product, enforcing reference
// uniqueness against every other product
func (s *Store) UpdateProduct(ctx context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.referenceTakenLocked(p.Reference, p.ID) {
		return fmt.Errorf("reference %q already in use: %w", p.Reference, ErrDuplicate)
	}
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			return s.persist(ctx, KeyProducts, s.products)
		}
	}
	return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
}

// DeleteProduct removes a product from the catalog
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return s.persist(ctx, KeyProducts, s.products)
		}
	}
	return fmt.Errorf("product %s: %w", id, ErrNotFound)
}

// Families returns a copy of the family taxonomy
func (s *Store) Families() []models.Family {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Family(nil), s.families...)
}

// AddFamily inserts a family, rejecting duplicate names
func (s *Store) AddFamily(ctx context.Context, f models.Family) (models.Family, error) {
	if f.Name == "" {
		return models.Family{}, fmt.Errorf("family name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.families {
		if strings.EqualFold(existing.Name, f.Name) {
			return models.Family{}, fmt.Errorf("family %q already exists: %w", f.Name, ErrDuplicate)
		}
	}
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	s.families = append(s.families, f)
	if err := s.persist(ctx, KeyFamilies, s.families); err != nil {
		return models.Family{}, err
	}
	return f, nil
}

// DeleteFamily removes a family; products referencing it fall back to empty
func (s *Store) DeleteFamily(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.families {
		if s.families[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("family %s: %w", id, ErrNotFound)
	}
	name := s.families[idx].Name
	s.families = append(s.families[:idx], s.families[idx+1:]...)

	touched := false
	for i := range s.products {
		if s.products[i].Family == name {
			s.products[i].Family = ""
			touched = true
		}
	}
	if err := s.persist(ctx, KeyFamilies, s.families); err != nil {
		return err
	}
	if touched {
		return s.persist(ctx, KeyProducts, s.products)
	}
	return nil
}

// Categories returns a copy of the category taxonomy
func (s *Store) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Category(nil), s.categories...)
}

// AddCategory inserts a category, rejecting duplicate names
func (s *Store) AddCategory(ctx context.Context, c models.Category) (models.Category, error) {
	if c.Name == "" {
		return models.Category{}, fmt.Errorf("category name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return models.Category{}, fmt.Errorf("category %q already exists: %w", c.Name, ErrDuplicate)
		}
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.categories = append(s.categories, c)
	if err := s.persist(ctx, KeyCategories, s.categories); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// DeleteCategory removes a category; products referencing it fall back to empty
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.categories {
		if s.categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	name := s.categories[idx].Name
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)

	touched := false
	for i := range s.products {
		if s.products[i].Category == name {
			s.products[i].Category = ""
			touched = true
		}
	}
	if err := s.persist(ctx, KeyCategories, s.categories); err != nil {
		return err
	}
	if touched {
		return s.persist(ctx, KeyProducts, s.products)
	}
	return nil
}

// ProductStates returns a copy of the product-state taxonomy
func (s *Store) ProductStates() []models.ProductState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ProductState(nil), s.productStates...)
}

// AddProductState inserts a product state, rejecting duplicate names
func (s *Store) AddProductState(ctx context.Context, ps models.ProductState) (models.ProductState, error) {
	if ps.Name == "" {
		return models.ProductState{}, fmt.Errorf("product state name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.productStates {
		if strings.EqualFold(existing.Name, ps.Name) {
			return models.ProductState{}, fmt.Errorf("product state %q already exists: %w", ps.Name, ErrDuplicate)
		}
	}
	if ps.ID == "" {
		ps.ID = uuid.New().String()
	}
	s.productStates = append(s.productStates, ps)
	if err := s.persist(ctx, KeyProductStates, s.productStates); err != nil {
		return models.ProductState{}, err
	}
	return ps, nil
}

// DeleteProductState removes a product state; products referencing it
// fall back to empty
func (s *Store) DeleteProductState(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.productStates {
		if s.productStates[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("product state %s: %w", id, ErrNotFound)
	}
	name := s.productStates[idx].Name
	s.productStates = append(s.productStates[:idx], s.productStates[idx+1:]...)

	touched := false
	for i := range s.products {
		if s.products[i].ProductState == name {
			s.products[i].ProductState = ""
			touched = true
		}
	}
	if err := s.persist(ctx, KeyProductStates, s.productStates); err != nil {
		return err
	}
	if touched {
		return s.persist(ctx, KeyProducts, s.products)
	}
	return nil
}
