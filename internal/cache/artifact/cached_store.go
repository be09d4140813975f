package artifact

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	artifactrepo "qrmenu/internal/gateway/repository/artifact"
)

type Store = artifactrepo.Store

type CacheConfig struct {
	ObjectTTL        time.Duration
	ObjectMaxEntries int

	ListTTL        time.Duration
	ListMaxEntries int

	URLTTL        time.Duration
	URLMaxEntries int
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ObjectTTL:        5 * time.Minute,
		ObjectMaxEntries: 512,
		ListTTL:          30 * time.Second,
		ListMaxEntries:   256,
		URLTTL:           5 * time.Minute,
		URLMaxEntries:    512,
	}
}

func (c CacheConfig) withDefaults() CacheConfig {
	def := DefaultCacheConfig()
	if c.ObjectTTL <= 0 {
		c.ObjectTTL = def.ObjectTTL
	}
	if c.ObjectMaxEntries <= 0 {
		c.ObjectMaxEntries = def.ObjectMaxEntries
	}
	if c.ListTTL <= 0 {
		c.ListTTL = def.ListTTL
	}
	if c.ListMaxEntries <= 0 {
		c.ListMaxEntries = def.ListMaxEntries
	}
	if c.URLTTL <= 0 {
		c.URLTTL = def.URLTTL
	}
	if c.URLMaxEntries <= 0 {
		c.URLMaxEntries = def.URLMaxEntries
	}
	return c
}

type MetricsSnapshot struct {
	ObjectHits     uint64
	ObjectMisses   uint64
	ListHits       uint64
	ListMisses     uint64
	URLHits        uint64
	URLMisses      uint64
	OriginReads    uint64
	OriginWrites   uint64
	OriginReadErr  uint64
	OriginWriteErr uint64
}

type metrics struct {
	objectHits, objectMisses      atomic.Uint64
	listHits, listMisses          atomic.Uint64
	urlHits, urlMisses            atomic.Uint64
	originReads, originWrites     atomic.Uint64
	originReadErr, originWriteErr atomic.Uint64
}

// CachedStore fronts an artifact store with expiring LRUs so published menu
// pages are not fetched from object storage on every scan.
type CachedStore struct {
	origin Store

	objects *expirable.LRU[string, artifactrepo.Object]
	lists   *expirable.LRU[string, []string]
	urls    *expirable.LRU[string, string]
	m       metrics
}

func NewCachedStore(origin Store, cfg CacheConfig) *CachedStore {
	cfg = cfg.withDefaults()
	return &CachedStore{
		origin:  origin,
		objects: expirable.NewLRU[string, artifactrepo.Object](cfg.ObjectMaxEntries, nil, cfg.ObjectTTL),
		lists:   expirable.NewLRU[string, []string](cfg.ListMaxEntries, nil, cfg.ListTTL),
		urls:    expirable.NewLRU[string, string](cfg.URLMaxEntries, nil, cfg.URLTTL),
	}
}

func (s *CachedStore) Put(ctx context.Context, restaurantID, path string, content []byte, contentType string) error {
	s.m.originWrites.Add(1)
	if err := s.origin.Put(ctx, restaurantID, path, content, contentType); err != nil {
		s.m.originWriteErr.Add(1)
		return err
	}
	key := cacheKey(restaurantID, path)
	s.objects.Add(key, artifactrepo.Object{Content: append([]byte(nil), content...), ContentType: contentType})
	s.lists.Remove(strings.TrimSpace(restaurantID))
	s.urls.Remove(key)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, restaurantID, path string) (artifactrepo.Object, error) {
	key := cacheKey(restaurantID, path)
	if obj, ok := s.objects.Get(key); ok {
		s.m.objectHits.Add(1)
		obj.Content = append([]byte(nil), obj.Content...)
		return obj, nil
	}
	s.m.objectMisses.Add(1)
	s.m.originReads.Add(1)

	obj, err := s.origin.Get(ctx, restaurantID, path)
	if err != nil {
		s.m.originReadErr.Add(1)
		return artifactrepo.Object{}, err
	}
	s.objects.Add(key, artifactrepo.Object{Content: append([]byte(nil), obj.Content...), ContentType: obj.ContentType})
	return obj, nil
}

func (s *CachedStore) GetURL(ctx context.Context, restaurantID, path string) (string, error) {
	key := cacheKey(restaurantID, path)
	if u, ok := s.urls.Get(key); ok {
		s.m.urlHits.Add(1)
		return u, nil
	}
	s.m.urlMisses.Add(1)
	s.m.originReads.Add(1)

	u, err := s.origin.GetURL(ctx, restaurantID, path)
	if err != nil {
		s.m.originReadErr.Add(1)
		return "", err
	}
	if strings.TrimSpace(u) != "" {
		s.urls.Add(key, u)
	}
	return u, nil
}

func (s *CachedStore) List(ctx context.Context, restaurantID string) ([]string, error) {
	id := strings.TrimSpace(restaurantID)
	if l, ok := s.lists.Get(id); ok {
		s.m.listHits.Add(1)
		return append([]string(nil), l...), nil
	}
	s.m.listMisses.Add(1)
	s.m.originReads.Add(1)

	l, err := s.origin.List(ctx, id)
	if err != nil {
		s.m.originReadErr.Add(1)
		return nil, err
	}
	s.lists.Add(id, append([]string(nil), l...))
	return l, nil
}

func (s *CachedStore) Metrics() MetricsSnapshot {
	if s == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		ObjectHits:     s.m.objectHits.Load(),
		ObjectMisses:   s.m.objectMisses.Load(),
		ListHits:       s.m.listHits.Load(),
		ListMisses:     s.m.listMisses.Load(),
		URLHits:        s.m.urlHits.Load(),
		URLMisses:      s.m.urlMisses.Load(),
		OriginReads:    s.m.originReads.Load(),
		OriginWrites:   s.m.originWrites.Load(),
		OriginReadErr:  s.m.originReadErr.Load(),
		OriginWriteErr: s.m.originWriteErr.Load(),
	}
}

func cacheKey(restaurantID, path string) string {
	return strings.TrimSpace(restaurantID) + "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
}
