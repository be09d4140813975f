package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"qrmenu/internal/briefing"
)

// PostgresStore reads restaurants, menu_items, orders and order_items. The
// tables are owned by the upload pipeline; ensureSchema only creates them when
// missing.
type PostgresStore struct {
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
	now        func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS restaurants (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    cuisine TEXT NOT NULL DEFAULT '',
    palette JSONB
);
CREATE TABLE IF NOT EXISTS menu_items (
    id SERIAL PRIMARY KEY,
    restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
    name TEXT NOT NULL,
    price NUMERIC(10,2) NOT NULL DEFAULT 0,
    category TEXT NOT NULL DEFAULT '',
    sales_volume DOUBLE PRECISION,
    margin DOUBLE PRECISION,
    bcg_class TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS orders (
    id SERIAL PRIMARY KEY,
    restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
    total NUMERIC(10,2) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS order_items (
    order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    item_name TEXT NOT NULL,
    quantity INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_menu_items_restaurant ON menu_items(restaurant_id);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
CREATE INDEX IF NOT EXISTS idx_orders_restaurant_created ON orders(restaurant_id, created_at);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) GetRestaurant(ctx context.Context, restaurantID string) (briefing.Restaurant, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return briefing.Restaurant{}, err
	}
	var (
		r       briefing.Restaurant
		palette []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, name, cuisine, palette FROM restaurants WHERE id=$1`,
		strings.TrimSpace(restaurantID)).Scan(&r.ID, &r.Name, &r.Cuisine, &palette)
	if errors.Is(err, sql.ErrNoRows) {
		return briefing.Restaurant{}, ErrNotFound
	}
	if err != nil {
		return briefing.Restaurant{}, err
	}
	if len(palette) > 0 {
		var p briefing.Palette
		if err := json.Unmarshal(palette, &p); err != nil {
			return briefing.Restaurant{}, fmt.Errorf("decode palette: %w", err)
		}
		r.Palette = &p
	}
	return r, nil
}

func (s *PostgresStore) GetMenuItems(ctx context.Context, restaurantID string) ([]briefing.MenuItem, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT name, price, category, sales_volume, margin, bcg_class
FROM menu_items WHERE restaurant_id=$1 ORDER BY category, name`, strings.TrimSpace(restaurantID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []briefing.MenuItem
	for rows.Next() {
		var (
			it          briefing.MenuItem
			vol, margin sql.NullFloat64
		)
		if err := rows.Scan(&it.Name, &it.Price, &it.Category, &vol, &margin, &it.BCGClass); err != nil {
			return nil, err
		}
		if vol.Valid {
			v := vol.Float64
			it.SalesVolume = &v
		}
		if margin.Valid {
			m := margin.Float64
			it.Margin = &m
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetSalesSummary aggregates orders in the trailing period. Top sellers and
// low performers are left for the briefing compiler to derive from volumes.
// Frequent pairs come from order_items over the same window.
func (s *PostgresStore) GetSalesSummary(ctx context.Context, restaurantID, period string) (briefing.SalesSummary, error) {
	d, err := periodDuration(period)
	if err != nil {
		return briefing.SalesSummary{}, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return briefing.SalesSummary{}, err
	}
	sum := briefing.SalesSummary{Period: period}
	id, since := strings.TrimSpace(restaurantID), s.now().Add(-d)
	err = s.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(total), 0)::float8, COUNT(*)
FROM orders WHERE restaurant_id=$1 AND created_at >= $2`,
		id, since).Scan(&sum.TotalRevenue, &sum.TotalOrders)
	if err != nil {
		return briefing.SalesSummary{}, err
	}
	if sum.TotalOrders > 0 {
		sum.AvgOrderValue = sum.TotalRevenue / float64(sum.TotalOrders)
		if sum.FrequentPairs, err = s.frequentPairs(ctx, id, since); err != nil {
			return briefing.SalesSummary{}, fmt.Errorf("frequent pairs: %w", err)
		}
	}
	return sum, nil
}

// frequentPairs mirrors briefing.FrequentPairs in SQL so only the top rows
// leave the database.
func (s *PostgresStore) frequentPairs(ctx context.Context, restaurantID string, since time.Time) ([]briefing.ItemPair, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT a.item_name, b.item_name, COUNT(DISTINCT a.order_id) AS n
FROM order_items a
JOIN order_items b ON b.order_id = a.order_id AND a.item_name < b.item_name
JOIN orders o ON o.id = a.order_id
WHERE o.restaurant_id=$1 AND o.created_at >= $2
GROUP BY a.item_name, b.item_name
HAVING COUNT(DISTINCT a.order_id) >= 2
ORDER BY n DESC, a.item_name, b.item_name
LIMIT 3`, restaurantID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []briefing.ItemPair
	for rows.Next() {
		var p briefing.ItemPair
		if err := rows.Scan(&p.A, &p.B, &p.Orders); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
