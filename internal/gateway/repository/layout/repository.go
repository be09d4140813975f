package layout

import (
	"context"
	"errors"
	"time"
)

// Layout is one saved version of a restaurant's menu design.
type Layout struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	Markup       string    `json:"markup"`
	Stylesheet   string    `json:"stylesheet"`
	Version      int       `json:"version"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store persists layouts. Versions are unique per restaurant.
type Store interface {
	Save(ctx context.Context, l Layout) (string, error)
	GetPublished(ctx context.Context, restaurantID string) (Layout, error)
	LatestVersion(ctx context.Context, restaurantID string) (int, error)
}

var (
	ErrNotFound        = errors.New("layout not found")
	ErrVersionConflict = errors.New("layout version already exists")
)
