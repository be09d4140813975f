package briefing

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
)

// DefaultPeriod is the sales window used when the compiler is not told otherwise.
const DefaultPeriod = "30d"

// DefaultGuidance is appended to every briefing.
var DefaultGuidance = []string{
	"Put stars and puzzles where the eye lands first: top right, then top left, then center.",
	"Do not list prices in a right-aligned column; keep them next to the item description.",
	"Drop currency symbols; plain numbers read as less expensive.",
	"Use boxes, badges or color sparingly to highlight at most two items per category.",
	"Keep descriptions short and sensory; long paragraphs get skipped on phones.",
	"Touch targets should be at least 44px tall on mobile.",
	"Keep contrast between text and background at WCAG AA or better.",
}

// Compiler builds briefings from a MenuSource. A nil source still produces a
// briefing from whatever the caller supplied.
type Compiler struct {
	src    MenuSource
	period string
}

func NewCompiler(src MenuSource, period string) *Compiler {
	if strings.TrimSpace(period) == "" {
		period = DefaultPeriod
	}
	return &Compiler{src: src, period: period}
}

// Compile loads restaurant data for restaurantID (when known) and overlays any
// non-empty fields from supplied. Load failures are logged and skipped: a
// thinner briefing is better than a failed turn.
func (c *Compiler) Compile(ctx context.Context, restaurantID string, supplied *Briefing) (Briefing, error) {
	var b Briefing
	if c != nil && c.src != nil && strings.TrimSpace(restaurantID) != "" {
		if err := c.load(ctx, restaurantID, &b); err != nil {
			if ctx.Err() != nil {
				return Briefing{}, ctx.Err()
			}
			log.Printf("briefing: load %s: %v", restaurantID, err)
		}
	}
	if supplied != nil {
		overlay(&b, supplied)
	}
	finish(&b)
	return b, nil
}

func (c *Compiler) load(ctx context.Context, restaurantID string, b *Briefing) error {
	r, err := c.src.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("restaurant: %w", err)
	}
	b.RestaurantName = r.Name
	b.Cuisine = r.Cuisine
	b.Palette = r.Palette

	items, err := c.src.GetMenuItems(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("menu items: %w", err)
	}
	b.Items = items

	sales, err := c.src.GetSalesSummary(ctx, restaurantID, c.period)
	if err != nil {
		return fmt.Errorf("sales summary: %w", err)
	}
	b.Sales = &sales
	return nil
}

func overlay(dst, src *Briefing) {
	if src.RestaurantName != "" {
		dst.RestaurantName = src.RestaurantName
	}
	if src.Cuisine != "" {
		dst.Cuisine = src.Cuisine
	}
	if len(src.Items) > 0 {
		dst.Items = append([]MenuItem(nil), src.Items...)
	}
	if src.Sales != nil {
		s := *src.Sales
		dst.Sales = &s
	}
	if !src.Palette.Empty() {
		p := *src.Palette
		dst.Palette = &p
	}
	if len(src.Guidance) > 0 {
		dst.Guidance = append([]string(nil), src.Guidance...)
	}
}

func finish(b *Briefing) {
	Score(b.Items)
	Classify(b.Items)
	if b.Sales != nil && len(b.Items) > 0 {
		top, low := Performers(b.Items)
		if len(b.Sales.TopSellers) == 0 {
			b.Sales.TopSellers = top
		}
		if len(b.Sales.LowPerformers) == 0 {
			b.Sales.LowPerformers = low
		}
	}
	if len(b.Guidance) == 0 {
		b.Guidance = append([]string(nil), DefaultGuidance...)
	}
}

// Render formats the briefing as the markdown block placed in every prompt.
func Render(b Briefing) string {
	var sb strings.Builder
	name := b.RestaurantName
	if name == "" {
		name = "(unnamed restaurant)"
	}
	fmt.Fprintf(&sb, "Restaurant: %s\n", name)
	if b.Cuisine != "" {
		fmt.Fprintf(&sb, "Cuisine: %s\n", b.Cuisine)
	}

	if len(b.Items) > 0 {
		sb.WriteString("\nMenu items by category:\n")
		byCat := map[string][]MenuItem{}
		var cats []string
		for _, it := range b.Items {
			cat := it.Category
			if cat == "" {
				cat = "Other"
			}
			if _, ok := byCat[cat]; !ok {
				cats = append(cats, cat)
			}
			byCat[cat] = append(byCat[cat], it)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			fmt.Fprintf(&sb, "- %s\n", cat)
			for _, it := range byCat[cat] {
				fmt.Fprintf(&sb, "  - %s: %.2f", it.Name, it.Price)
				if it.BCGClass != "" {
					fmt.Fprintf(&sb, " [%s]", it.BCGClass)
				}
				sb.WriteByte('\n')
			}
		}
	}

	if s := b.Sales; s != nil {
		sb.WriteString("\nSales")
		if s.Period != "" {
			fmt.Fprintf(&sb, " (%s)", s.Period)
		}
		fmt.Fprintf(&sb, ": revenue %.2f, %d orders, average order %.2f\n", s.TotalRevenue, s.TotalOrders, s.AvgOrderValue)
		if len(s.TopSellers) > 0 {
			fmt.Fprintf(&sb, "Top sellers: %s\n", strings.Join(s.TopSellers, ", "))
		}
		if len(s.LowPerformers) > 0 {
			fmt.Fprintf(&sb, "Low performers: %s\n", strings.Join(s.LowPerformers, ", "))
		}
		if len(s.FrequentPairs) > 0 {
			pairs := make([]string, 0, len(s.FrequentPairs))
			for _, p := range s.FrequentPairs {
				pairs = append(pairs, fmt.Sprintf("%s + %s (%d orders)", p.A, p.B, p.Orders))
			}
			fmt.Fprintf(&sb, "Frequently ordered together: %s\n", strings.Join(pairs, ", "))
		}
	}

	if p := b.Palette; !p.Empty() {
		sb.WriteString("\nBrand palette:")
		for _, kv := range [][2]string{
			{"primary", p.Primary}, {"secondary", p.Secondary}, {"accent", p.Accent},
			{"background", p.Background}, {"dominant", p.Dominant},
		} {
			if kv[1] != "" {
				fmt.Fprintf(&sb, " %s %s;", kv[0], kv[1])
			}
		}
		sb.WriteByte('\n')
	}

	if len(b.Guidance) > 0 {
		sb.WriteString("\nDesign guidance:\n")
		for _, g := range b.Guidance {
			fmt.Fprintf(&sb, "- %s\n", g)
		}
	}
	return sb.String()
}
