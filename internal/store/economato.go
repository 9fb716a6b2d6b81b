package store

import (
	"context"
	"fmt"

	"catering-service/internal/models"
)

// MiniEconomato returns a copy of the small-stock buffer
func (s *Store) MiniEconomato() []models.MiniEconomatoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MiniEconomatoItem(nil), s.miniEconomato...)
}

// MiniEconomatoItem looks up one stock line
func (s *Store) MiniEconomatoItem(productID string) (models.MiniEconomatoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.miniEconomato {
		if item.ProductID == productID {
			return item, nil
		}
	}
	return models.MiniEconomatoItem{}, fmt.Errorf("mini-economato item %s: %w", productID, ErrNotFound)
}

// UpsertMiniEconomatoItem inserts or replaces one stock line
func (s *Store) UpsertMiniEconomatoItem(ctx context.Context, item models.MiniEconomatoItem) error {
	if item.ProductID == "" {
		return fmt.Errorf("mini-economato item requires a product: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.miniEconomato {
		if s.miniEconomato[i].ProductID == item.ProductID {
			s.miniEconomato[i] = item
			return s.persist(ctx, KeyMiniEconomato, s.miniEconomato)
		}
	}
	s.miniEconomato = append(s.miniEconomato, item)
	return s.persist(ctx, KeyMiniEconomato, s.miniEconomato)
}

// AdjustMiniEconomatoStock decrements a stock line, rejecting draws
// beyond the available quantity
func (s *Store) AdjustMiniEconomatoStock(ctx context.Context, productID string, delta float64) (models.MiniEconomatoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.miniEconomato {
		if s.miniEconomato[i].ProductID != productID {
			continue
		}
		next := s.miniEconomato[i].CurrentStock + delta
		if next < 0 {
			return models.MiniEconomatoItem{}, fmt.Errorf(
				"insufficient stock for product %s: have %.2f, need %.2f: %w",
				productID, s.miniEconomato[i].CurrentStock, -delta, ErrBusinessRule)
		}
		s.miniEconomato[i].CurrentStock = next
		if err := s.persist(ctx, KeyMiniEconomato, s.miniEconomato); err != nil {
			return models.MiniEconomatoItem{}, err
		}
		return s.miniEconomato[i], nil
	}
	return models.MiniEconomatoItem{}, fmt.Errorf("mini-economato item %s: %w", productID, ErrNotFound)
}

// DeleteMiniEconomatoItem removes one stock line
func (s *Store) DeleteMiniEconomatoItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.miniEconomato {
		if s.miniEconomato[i].ProductID == productID {
			s.miniEconomato = append(s.miniEconomato[:i], s.miniEconomato[i+1:]...)
			return s.persist(ctx, KeyMiniEconomato, s.miniEconomato)
		}
	}
	return fmt.Errorf("mini-economato item %s: %w", productID, ErrNotFound)
}
