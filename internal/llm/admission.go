package llm

import (
	"sync"
	"time"
)

const rateWindow = time.Minute

// Guard is the process-wide budget and rate state. One instance is built by the
// composition root and shared by every gateway; it is never reset except by a
// restart. Counters are local to the process.
type Guard struct {
	mu sync.Mutex

	rpm    int
	budget float64

	window       []time.Time
	spent        float64
	inputTokens  int64
	outputTokens int64

	now func() time.Time
}

// NewGuard allows at most rpm turns per trailing minute and stops admitting once
// budgetUSD has been spent. rpm <= 0 disables the rate check and budgetUSD <= 0
// disables the budget check.
func NewGuard(rpm int, budgetUSD float64) *Guard {
	return &Guard{rpm: rpm, budget: budgetUSD, now: time.Now}
}

// Admit is called once per turn before any backend is tried. An admitted turn
// occupies one slot in the rate window.
func (g *Guard) Admit() error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.budget > 0 && g.spent >= g.budget {
		return &AdmissionError{Reason: DenyBudgetExhausted, Spent: g.spent, Budget: g.budget}
	}

	now := g.now()
	g.pruneLocked(now)
	if g.rpm > 0 && len(g.window) >= g.rpm {
		wait := g.window[0].Add(rateWindow).Sub(now)
		if wait < time.Second {
			wait = time.Second
		}
		return &AdmissionError{Reason: DenyRateLimited, RetryAfter: wait, Spent: g.spent, Budget: g.budget}
	}
	g.window = append(g.window, now)
	return nil
}

// Record charges one successful paid call.
func (g *Guard) Record(inputTokens, outputTokens int, cost float64) {
	if g == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inputTokens += int64(inputTokens)
	g.outputTokens += int64(outputTokens)
	g.spent += cost
}

func (g *Guard) pruneLocked(now time.Time) {
	cut := 0
	for cut < len(g.window) && !g.window[cut].Add(rateWindow).After(now) {
		cut++
	}
	if cut > 0 {
		g.window = append(g.window[:0], g.window[cut:]...)
	}
}

// Usage is a point-in-time copy of the guard counters.
type Usage struct {
	RequestsInWindow int     `json:"requestsInWindow"`
	RPM              int     `json:"rpm"`
	SpentUSD         float64 `json:"spentUsd"`
	BudgetUSD        float64 `json:"budgetUsd"`
	InputTokens      int64   `json:"inputTokens"`
	OutputTokens     int64   `json:"outputTokens"`
}

func (g *Guard) Snapshot() Usage {
	if g == nil {
		return Usage{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pruneLocked(g.now())
	return Usage{
		RequestsInWindow: len(g.window),
		RPM:              g.rpm,
		SpentUSD:         g.spent,
		BudgetUSD:        g.budget,
		InputTokens:      g.inputTokens,
		OutputTokens:     g.outputTokens,
	}
}
