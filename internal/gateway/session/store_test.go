package session

import (
	"errors"
	"testing"
	"time"

	"qrmenu/internal/design"
	"qrmenu/internal/tester"
)

func TestStore_CreateGetExpire(t *testing.T) {
	s := NewStore(design.NewAgent(nil, nil), 4, 30*time.Millisecond)
	e := s.Create(" r1 ", design.Document{Markup: "m", Stylesheet: "c"})
	tester.Eq(t, e.RestaurantID, "r1")

	got, err := s.Get(e.ID)
	tester.NoErr(t, err)
	got.Lock()
	tester.Eq(t, got.Editor().Document().Markup, "m")
	got.Unlock()

	time.Sleep(60 * time.Millisecond)
	_, err = s.Get(e.ID)
	tester.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := NewStore(design.NewAgent(nil, nil), 2, time.Hour)
	a := s.Create("", design.Document{})
	b := s.Create("", design.Document{})
	_, err := s.Get(a.ID)
	tester.NoErr(t, err)
	s.Create("", design.Document{})

	_, err = s.Get(b.ID)
	tester.True(t, errors.Is(err, ErrNotFound), "b should have been evicted")
	_, err = s.Get(a.ID)
	tester.NoErr(t, err)
}

func TestEditing_RecordBoundsTurns(t *testing.T) {
	e := &Editing{}
	for i := 0; i < maxTurns; i++ {
		e.Record("u", "a")
	}
	tester.Eq(t, len(e.Turns()), maxTurns)
	tester.Eq(t, e.Turns()[0].Role, "user")
}
