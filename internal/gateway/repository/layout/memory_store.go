package layout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu           sync.RWMutex
	byRestaurant map[string][]Layout
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byRestaurant: make(map[string][]Layout)}
}

func (s *MemoryStore) Save(_ context.Context, l Layout) (string, error) {
	if err := validate(&l); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byRestaurant[l.RestaurantID] {
		if existing.Version == l.Version {
			return "", ErrVersionConflict
		}
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	s.byRestaurant[l.RestaurantID] = append(s.byRestaurant[l.RestaurantID], l)
	return l.ID, nil
}

func (s *MemoryStore) GetPublished(_ context.Context, restaurantID string) (Layout, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best Layout
	found := false
	for _, l := range s.byRestaurant[restaurantID] {
		if l.Published && (!found || l.Version > best.Version) {
			best, found = l, true
		}
	}
	if !found {
		return Layout{}, ErrNotFound
	}
	return best, nil
}

func (s *MemoryStore) LatestVersion(_ context.Context, restaurantID string) (int, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := 0
	for _, l := range s.byRestaurant[restaurantID] {
		if l.Version > v {
			v = l.Version
		}
	}
	return v, nil
}

func validate(l *Layout) error {
	l.RestaurantID = strings.TrimSpace(l.RestaurantID)
	if l.RestaurantID == "" {
		return fmt.Errorf("restaurant_id is required")
	}
	if l.Version <= 0 {
		return fmt.Errorf("version must be positive")
	}
	return nil
}
