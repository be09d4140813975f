package layout

import (
	"context"
	"errors"
	"testing"

	"qrmenu/internal/tester"
)

func TestMemoryStore_PublishedIsHighestPublishedVersion(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.GetPublished(ctx, "r1")
	tester.True(t, errors.Is(err, ErrNotFound))

	id1, err := s.Save(ctx, Layout{RestaurantID: "r1", Markup: "a", Version: 1, Published: true})
	tester.NoErr(t, err)
	_, err = s.Save(ctx, Layout{RestaurantID: "r1", Markup: "draft", Version: 2})
	tester.NoErr(t, err)

	got, err := s.GetPublished(ctx, "r1")
	tester.NoErr(t, err)
	tester.Eq(t, got.ID, id1)
	tester.Eq(t, got.Markup, "a")

	v, err := s.LatestVersion(ctx, "r1")
	tester.NoErr(t, err)
	tester.Eq(t, v, 2)
}

func TestMemoryStore_VersionConflict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Save(ctx, Layout{RestaurantID: "r1", Version: 1})
	tester.NoErr(t, err)
	_, err = s.Save(ctx, Layout{RestaurantID: "r1", Version: 1})
	tester.True(t, errors.Is(err, ErrVersionConflict))
	_, err = s.Save(ctx, Layout{RestaurantID: "r2", Version: 1})
	tester.NoErr(t, err)
}

func TestMemoryStore_Validation(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Save(context.Background(), Layout{Version: 1})
	tester.True(t, err != nil)
	_, err = s.Save(context.Background(), Layout{RestaurantID: "r1"})
	tester.True(t, err != nil)
}
