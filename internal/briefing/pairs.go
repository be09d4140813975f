package briefing

import (
	"slices"
	"sort"
	"strings"
)

const (
	pairCount     = 3
	minPairOrders = 2
)

// ItemPair is two items that appear on the same orders.
type ItemPair struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Orders int    `json:"orders"`
}

// FrequentPairs counts item pairs across orders, where each order is the list
// of item names on it. An item repeated within one order counts once. Pairs
// seen on fewer than two orders are dropped; the rest come back most frequent
// first, names breaking ties.
func FrequentPairs(orders [][]string) []ItemPair {
	counts := map[[2]string]int{}
	for _, o := range orders {
		names := make([]string, 0, len(o))
		for _, n := range o {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		slices.Sort(names)
		names = slices.Compact(names)
		for i := range names {
			for j := i + 1; j < len(names); j++ {
				counts[[2]string{names[i], names[j]}]++
			}
		}
	}

	out := make([]ItemPair, 0, len(counts))
	for k, n := range counts {
		if n >= minPairOrders {
			out = append(out, ItemPair{A: k[0], B: k[1], Orders: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orders != out[j].Orders {
			return out[i].Orders > out[j].Orders
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	if len(out) > pairCount {
		out = out[:pairCount]
	}
	return out
}
