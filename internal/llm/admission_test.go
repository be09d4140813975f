package llm

import (
	"errors"
	"testing"
	"time"

	"qrmenu/internal/tester"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestGuard_DeniesAfterCapWithinWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := NewGuard(3, 0)
	g.now = fixedClock(&now)

	for i := 0; i < 3; i++ {
		tester.NoErr(t, g.Admit(), "admit within cap")
		now = now.Add(5 * time.Second)
	}

	err := g.Admit()
	var adm *AdmissionError
	tester.True(t, errors.As(err, &adm), "expected AdmissionError, got %v", err)
	tester.Eq(t, adm.Reason, DenyRateLimited)
	tester.True(t, adm.RetryAfter > 0, "retry-after must be positive")
	// oldest entry was at t0, now is t0+15s -> 45s remain
	tester.Eq(t, adm.RetryAfter, 45*time.Second)
}

func TestGuard_WindowSlides(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := NewGuard(1, 0)
	g.now = fixedClock(&now)

	tester.NoErr(t, g.Admit())
	tester.True(t, g.Admit() != nil, "second admit inside window must fail")
	now = now.Add(61 * time.Second)
	tester.NoErr(t, g.Admit(), "window should have expired")
}

func TestGuard_BudgetCeilingIsPermanent(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := NewGuard(0, 1.0)
	g.now = fixedClock(&now)

	tester.NoErr(t, g.Admit())
	g.Record(1000, 1000, 1.0)

	err := g.Admit()
	var adm *AdmissionError
	tester.True(t, errors.As(err, &adm), "expected budget denial")
	tester.Eq(t, adm.Reason, DenyBudgetExhausted)

	now = now.Add(24 * time.Hour)
	tester.True(t, g.Admit() != nil, "budget must not reset with time")
}

func TestGuard_SnapshotCountsTokens(t *testing.T) {
	g := NewGuard(10, 5)
	tester.NoErr(t, g.Admit())
	g.Record(120, 80, 0.25)
	g.Record(30, 20, 0.25)

	u := g.Snapshot()
	tester.Eq(t, u.RequestsInWindow, 1)
	tester.Eq(t, u.InputTokens, int64(150))
	tester.Eq(t, u.OutputTokens, int64(100))
	tester.Eq(t, u.SpentUSD, 0.5)
}

func TestGuard_NilIsPermissive(t *testing.T) {
	var g *Guard
	tester.NoErr(t, g.Admit())
	g.Record(1, 1, 1)
	tester.Eq(t, g.Snapshot(), Usage{})
}
