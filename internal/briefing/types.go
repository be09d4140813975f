package briefing

import "context"

// BCG classes. CashCow is sometimes called "plowhorse" on menus.
const (
	ClassStar    = "star"
	ClassCashCow = "cash-cow"
	ClassPuzzle  = "puzzle"
	ClassDog     = "dog"
)

type MenuItem struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	SalesVolume *float64 `json:"salesVolume,omitempty"`
	Margin      *float64 `json:"margin,omitempty"`
	BCGClass    string   `json:"bcgClass,omitempty"`
	Popularity  *float64 `json:"popularity,omitempty"`
}

type SalesSummary struct {
	Period        string     `json:"period,omitempty"`
	TotalRevenue  float64    `json:"totalRevenue"`
	TotalOrders   int        `json:"totalOrders"`
	AvgOrderValue float64    `json:"avgOrderValue"`
	TopSellers    []string   `json:"topSellers,omitempty"`
	LowPerformers []string   `json:"lowPerformers,omitempty"`
	FrequentPairs []ItemPair `json:"frequentPairs,omitempty"`
}

// Palette is what color extraction hands back for an uploaded image.
type Palette struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Background string `json:"background,omitempty"`
	Dominant   string `json:"dominant,omitempty"`
}

func (p *Palette) Empty() bool {
	return p == nil || (p.Primary == "" && p.Secondary == "" && p.Accent == "" && p.Background == "" && p.Dominant == "")
}

type Restaurant struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Cuisine string   `json:"cuisine,omitempty"`
	Palette *Palette `json:"palette,omitempty"`
}

// Briefing is the per-turn snapshot of restaurant data injected into prompts.
// It is rebuilt every turn and never stored.
type Briefing struct {
	RestaurantName string        `json:"restaurantName,omitempty"`
	Cuisine        string        `json:"cuisine,omitempty"`
	Items          []MenuItem    `json:"items,omitempty"`
	Sales          *SalesSummary `json:"sales,omitempty"`
	Palette        *Palette      `json:"palette,omitempty"`
	Guidance       []string      `json:"guidance,omitempty"`
}

// MenuSource is the restaurant/menu persistence seen from the design loop.
type MenuSource interface {
	GetRestaurant(ctx context.Context, restaurantID string) (Restaurant, error)
	GetMenuItems(ctx context.Context, restaurantID string) ([]MenuItem, error)
	GetSalesSummary(ctx context.Context, restaurantID, period string) (SalesSummary, error)
}
