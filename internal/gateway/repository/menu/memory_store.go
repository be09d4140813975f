package menu

import (
	"context"
	"strings"
	"sync"

	"qrmenu/internal/briefing"
)

// MemoryStore keeps restaurants, items, a precomputed sales summary and the
// item names of recent orders.
type MemoryStore struct {
	mu          sync.RWMutex
	restaurants map[string]briefing.Restaurant
	items       map[string][]briefing.MenuItem
	sales       map[string]briefing.SalesSummary
	orders      map[string][][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		restaurants: map[string]briefing.Restaurant{},
		items:       map[string][]briefing.MenuItem{},
		sales:       map[string]briefing.SalesSummary{},
		orders:      map[string][][]string{},
	}
}

func (s *MemoryStore) PutRestaurant(r briefing.Restaurant, items []briefing.MenuItem, sales *briefing.SalesSummary) {
	id := strings.TrimSpace(r.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restaurants[id] = r
	s.items[id] = append([]briefing.MenuItem(nil), items...)
	if sales != nil {
		s.sales[id] = *sales
	}
}

// PutOrders replaces the orders of a restaurant. Each order is the item names
// on it.
func (s *MemoryStore) PutOrders(restaurantID string, orders [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[strings.TrimSpace(restaurantID)] = append([][]string(nil), orders...)
}

func (s *MemoryStore) GetRestaurant(_ context.Context, restaurantID string) (briefing.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.restaurants[strings.TrimSpace(restaurantID)]
	if !ok {
		return briefing.Restaurant{}, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) GetMenuItems(_ context.Context, restaurantID string) ([]briefing.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := strings.TrimSpace(restaurantID)
	if _, ok := s.restaurants[id]; !ok {
		return nil, ErrNotFound
	}
	return append([]briefing.MenuItem(nil), s.items[id]...), nil
}

// GetSalesSummary ignores period; the stored summary is whatever was put.
// Frequent pairs are derived from PutOrders when the summary has none.
func (s *MemoryStore) GetSalesSummary(_ context.Context, restaurantID, period string) (briefing.SalesSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := strings.TrimSpace(restaurantID)
	if _, ok := s.restaurants[id]; !ok {
		return briefing.SalesSummary{}, ErrNotFound
	}
	sum := s.sales[id]
	if sum.Period == "" {
		sum.Period = period
	}
	if len(sum.FrequentPairs) == 0 {
		sum.FrequentPairs = briefing.FrequentPairs(s.orders[id])
	}
	return sum, nil
}
