package artifact

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	artifactrepo "qrmenu/internal/gateway/repository/artifact"
	"qrmenu/internal/tester"
)

type countingStore struct {
	artifactrepo.Store

	mu       sync.Mutex
	gets     int
	lists    int
	failPuts bool
}

func (c *countingStore) Put(ctx context.Context, id, path string, content []byte, ct string) error {
	if c.failPuts {
		return errors.New("put failed")
	}
	return c.Store.Put(ctx, id, path, content, ct)
}

func (c *countingStore) Get(ctx context.Context, id, path string) (artifactrepo.Object, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.Store.Get(ctx, id, path)
}

func (c *countingStore) List(ctx context.Context, id string) ([]string, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	return c.Store.List(ctx, id)
}

func TestCachedStore_ReadThrough(t *testing.T) {
	ctx := context.Background()
	origin := &countingStore{Store: artifactrepo.NewMemoryStore()}
	tester.NoErr(t, origin.Store.Put(ctx, "r1", "v1/index.html", []byte("hello"), "text/html"))
	s := NewCachedStore(origin, CacheConfig{})

	for i := 0; i < 2; i++ {
		obj, err := s.Get(ctx, "r1", "v1/index.html")
		tester.NoErr(t, err)
		tester.Eq(t, string(obj.Content), "hello")
		tester.Eq(t, obj.ContentType, "text/html")
	}
	tester.Eq(t, origin.gets, 1)
	m := s.Metrics()
	tester.Eq(t, m.ObjectHits, uint64(1))
	tester.Eq(t, m.ObjectMisses, uint64(1))
}

func TestCachedStore_WriteThroughInvalidatesList(t *testing.T) {
	ctx := context.Background()
	origin := &countingStore{Store: artifactrepo.NewMemoryStore()}
	s := NewCachedStore(origin, CacheConfig{})

	l, err := s.List(ctx, "r1")
	tester.NoErr(t, err)
	tester.Eq(t, len(l), 0)

	tester.NoErr(t, s.Put(ctx, "r1", "v1/index.html", []byte("x"), "text/html"))
	l, err = s.List(ctx, "r1")
	tester.NoErr(t, err)
	tester.Eq(t, l, []string{"v1/index.html"})
	tester.Eq(t, origin.lists, 2)

	_, err = s.Get(ctx, "r1", "v1/index.html")
	tester.NoErr(t, err)
	tester.Eq(t, origin.gets, 0, "written object should be served from cache")

	origin.failPuts = true
	tester.True(t, s.Put(ctx, "r1", "v2/index.html", []byte("bad"), "") != nil)
	_, err = s.Get(ctx, "r1", "v2/index.html")
	tester.True(t, errors.Is(err, artifactrepo.ErrNotFound))
	tester.Eq(t, s.Metrics().OriginWriteErr, uint64(1))
}

func TestCachedStore_TTL(t *testing.T) {
	ctx := context.Background()
	origin := &countingStore{Store: artifactrepo.NewMemoryStore()}
	tester.NoErr(t, origin.Store.Put(ctx, "r1", "a", []byte("A"), ""))
	s := NewCachedStore(origin, CacheConfig{ObjectTTL: 10 * time.Millisecond})

	_, err := s.Get(ctx, "r1", "a")
	tester.NoErr(t, err)
	time.Sleep(30 * time.Millisecond)
	_, err = s.Get(ctx, "r1", "a")
	tester.NoErr(t, err)
	tester.Eq(t, origin.gets, 2)
}
