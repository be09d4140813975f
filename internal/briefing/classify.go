package briefing

import (
	"sort"
)

const performerCount = 3

// Score fills Popularity with min-max normalised sales volume. When every
// volume is equal the score is 0.5. Items without volume are left alone.
func Score(items []MenuItem) {
	var lo, hi float64
	seen := false
	for _, it := range items {
		if it.SalesVolume == nil {
			continue
		}
		v := *it.SalesVolume
		if !seen || v < lo {
			lo = v
		}
		if !seen || v > hi {
			hi = v
		}
		seen = true
	}
	if !seen {
		return
	}
	for i := range items {
		if items[i].SalesVolume == nil {
			continue
		}
		s := 0.5
		if hi > lo {
			s = (*items[i].SalesVolume - lo) / (hi - lo)
		}
		items[i].Popularity = &s
	}
}

// Classify assigns a BCG class to items that have none, splitting on the
// median sales volume and median margin of the items that carry both.
func Classify(items []MenuItem) {
	var vols, margins []float64
	for _, it := range items {
		if it.SalesVolume != nil && it.Margin != nil {
			vols = append(vols, *it.SalesVolume)
			margins = append(margins, *it.Margin)
		}
	}
	if len(vols) == 0 {
		return
	}
	mv, mm := median(vols), median(margins)
	for i := range items {
		it := &items[i]
		if it.BCGClass != "" || it.SalesVolume == nil || it.Margin == nil {
			continue
		}
		popular := *it.SalesVolume >= mv
		profitable := *it.Margin >= mm
		switch {
		case popular && profitable:
			it.BCGClass = ClassStar
		case popular:
			it.BCGClass = ClassCashCow
		case profitable:
			it.BCGClass = ClassPuzzle
		default:
			it.BCGClass = ClassDog
		}
	}
}

func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// Performers returns the names of the highest and lowest selling items.
func Performers(items []MenuItem) (top, low []string) {
	withVol := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if it.SalesVolume != nil {
			withVol = append(withVol, it)
		}
	}
	sort.SliceStable(withVol, func(i, j int) bool { return *withVol[i].SalesVolume > *withVol[j].SalesVolume })
	for i := 0; i < len(withVol) && i < performerCount; i++ {
		top = append(top, withVol[i].Name)
	}
	for i := len(withVol) - 1; i >= 0 && len(low) < performerCount; i-- {
		if contains(top, withVol[i].Name) {
			break
		}
		low = append(low, withVol[i].Name)
	}
	return top, low
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
