package artifact

import (
	"context"
	"errors"
	"testing"

	"qrmenu/internal/tester"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "r1", "v1/index.html")
	tester.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)

	tester.NoErr(t, s.Put(ctx, "r1", "/v1/index.html", []byte("<html>1</html>"), "text/html; charset=utf-8"))
	tester.NoErr(t, s.Put(ctx, "r1", "v2/index.html", []byte("<html>2</html>"), "text/html; charset=utf-8"))
	tester.NoErr(t, s.Put(ctx, "r2", "v1/index.html", []byte("other"), ""))

	obj, err := s.Get(ctx, "r1", "v1/index.html")
	tester.NoErr(t, err)
	tester.Eq(t, string(obj.Content), "<html>1</html>")
	tester.Contains(t, obj.ContentType, "text/html")

	paths, err := s.List(ctx, "r1")
	tester.NoErr(t, err)
	tester.Eq(t, paths, []string{"v1/index.html", "v2/index.html"})

	tester.True(t, s.Put(ctx, "", "x", nil, "") != nil, "empty restaurant id must fail")
	tester.True(t, s.Put(ctx, "r1", "../escape", nil, "") != nil, "path traversal must fail")
}

func TestMemoryStore(t *testing.T) { exerciseStore(t, NewMemoryStore()) }

func TestDiskStore(t *testing.T) { exerciseStore(t, NewDiskStore(t.TempDir())) }
