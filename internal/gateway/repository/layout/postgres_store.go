package layout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresStore keeps layouts in a menu_layouts table. db is expected to be
// opened with the pgx stdlib driver.
type PostgresStore struct {
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS menu_layouts (
    id TEXT PRIMARY KEY,
    restaurant_id TEXT NOT NULL,
    markup TEXT NOT NULL,
    stylesheet TEXT NOT NULL,
    version INTEGER NOT NULL,
    published BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    UNIQUE(restaurant_id, version)
);
CREATE INDEX IF NOT EXISTS idx_menu_layouts_published ON menu_layouts(restaurant_id, published, version DESC);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Save(ctx context.Context, l Layout) (string, error) {
	if err := validate(&l); err != nil {
		return "", err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return "", err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO menu_layouts (id, restaurant_id, markup, stylesheet, version, published, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, l.ID, l.RestaurantID, l.Markup, l.Stylesheet, l.Version, l.Published, l.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", ErrVersionConflict
		}
		return "", err
	}
	return l.ID, nil
}

func (s *PostgresStore) GetPublished(ctx context.Context, restaurantID string) (Layout, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return Layout{}, fmt.Errorf("restaurant_id is required")
	}
	if err := s.ensureSchema(ctx); err != nil {
		return Layout{}, err
	}
	var l Layout
	err := s.db.QueryRowContext(ctx, `
SELECT id, restaurant_id, markup, stylesheet, version, published, created_at
FROM menu_layouts
WHERE restaurant_id=$1 AND published
ORDER BY version DESC
LIMIT 1`, restaurantID).Scan(&l.ID, &l.RestaurantID, &l.Markup, &l.Stylesheet, &l.Version, &l.Published, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Layout{}, ErrNotFound
	}
	return l, err
}

func (s *PostgresStore) LatestVersion(ctx context.Context, restaurantID string) (int, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, err
	}
	var v int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM menu_layouts WHERE restaurant_id=$1`,
		strings.TrimSpace(restaurantID)).Scan(&v)
	return v, err
}
