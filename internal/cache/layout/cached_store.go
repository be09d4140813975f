package layout

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	layoutrepo "qrmenu/internal/gateway/repository/layout"
)

type Store = layoutrepo.Store

const DefaultMaxEntries = 1024

type MetricsSnapshot struct {
	Hits        uint64
	Misses      uint64
	OriginReads uint64
	Invalidated uint64
}

// CachedStore serves GetPublished from an LRU. Publishing through Save drops
// the restaurant's entry so the next read goes to origin. A read that started
// before a publish never fills the cache with what it read.
type CachedStore struct {
	origin    Store
	published *lru.Cache[string, layoutrepo.Layout]

	mu   sync.Mutex
	gens map[string]uint64

	hits, misses, originReads, invalidated atomic.Uint64
}

func NewCachedStore(origin Store, maxEntries int) (*CachedStore, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c, err := lru.New[string, layoutrepo.Layout](maxEntries)
	if err != nil {
		return nil, err
	}
	return &CachedStore{origin: origin, published: c, gens: make(map[string]uint64)}, nil
}

func (s *CachedStore) Save(ctx context.Context, l layoutrepo.Layout) (string, error) {
	id, err := s.origin.Save(ctx, l)
	if err != nil {
		return "", err
	}
	if l.Published {
		key := strings.TrimSpace(l.RestaurantID)
		s.mu.Lock()
		s.gens[key]++
		removed := s.published.Remove(key)
		s.mu.Unlock()
		if removed {
			s.invalidated.Add(1)
		}
	}
	return id, nil
}

func (s *CachedStore) GetPublished(ctx context.Context, restaurantID string) (layoutrepo.Layout, error) {
	key := strings.TrimSpace(restaurantID)
	if l, ok := s.published.Get(key); ok {
		s.hits.Add(1)
		return l, nil
	}
	s.misses.Add(1)
	s.mu.Lock()
	gen := s.gens[key]
	s.mu.Unlock()

	s.originReads.Add(1)
	l, err := s.origin.GetPublished(ctx, key)
	if err != nil {
		return layoutrepo.Layout{}, err
	}
	s.mu.Lock()
	if s.gens[key] == gen {
		s.published.Add(key, l)
	}
	s.mu.Unlock()
	return l, nil
}

// LatestVersion is never cached; publishing needs the authoritative value.
func (s *CachedStore) LatestVersion(ctx context.Context, restaurantID string) (int, error) {
	return s.origin.LatestVersion(ctx, restaurantID)
}

func (s *CachedStore) Metrics() MetricsSnapshot {
	if s == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		OriginReads: s.originReads.Load(),
		Invalidated: s.invalidated.Load(),
	}
}
