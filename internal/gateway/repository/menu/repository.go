package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"qrmenu/internal/briefing"
)

// Store is the restaurant/menu persistence used for briefings.
type Store interface {
	briefing.MenuSource
}

var ErrNotFound = errors.New("restaurant not found")

// periodDuration parses "30d", "12w" or any time.ParseDuration string.
func periodDuration(period string) (time.Duration, error) {
	p := strings.TrimSpace(strings.ToLower(period))
	if p == "" {
		p = briefing.DefaultPeriod
	}
	unit := p[len(p)-1]
	if unit == 'd' || unit == 'w' {
		n, err := strconv.Atoi(p[:len(p)-1])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid period %q", period)
		}
		d := time.Duration(n) * 24 * time.Hour
		if unit == 'w' {
			d *= 7
		}
		return d, nil
	}
	d, err := time.ParseDuration(p)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid period %q", period)
	}
	return d, nil
}
