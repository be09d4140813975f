package llm

import (
	"context"
	"errors"
	"log"
)

const (
	DefaultTemperature   float32 = 0.7
	DefaultPaidMaxTokens         = 4096
	DefaultFreeMaxTokens         = 2048
)

// Gateway tries ranked backends in order and returns the first non-empty
// completion. Attempts are strictly sequential.
type Gateway struct {
	backends    []Backend
	guard       *Guard
	temperature float32
	paidCap     int
	freeCap     int
	log         *log.Logger
}

type Option func(*Gateway)

func WithTemperature(t float32) Option { return func(g *Gateway) { g.temperature = t } }

func WithTokenCaps(paid, free int) Option {
	return func(g *Gateway) {
		if paid > 0 {
			g.paidCap = paid
		}
		if free > 0 {
			g.freeCap = free
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

func NewGateway(backends []Backend, guard *Guard, opts ...Option) *Gateway {
	g := &Gateway{
		backends:    append([]Backend(nil), backends...),
		guard:       guard,
		temperature: DefaultTemperature,
		paidCap:     DefaultPaidMaxTokens,
		freeCap:     DefaultFreeMaxTokens,
		log:         log.Default(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Configured reports whether at least one backend exists.
func (g *Gateway) Configured() bool { return g != nil && len(g.backends) > 0 }

func (g *Gateway) Guard() *Guard {
	if g == nil {
		return nil
	}
	return g.guard
}

// Backends returns the backend names in rank order.
func (g *Gateway) Backends() []string {
	if g == nil {
		return nil
	}
	out := make([]string, 0, len(g.backends))
	for _, b := range g.backends {
		out = append(out, b.Name())
	}
	return out
}

// Result is the raw text of the winning backend.
type Result struct {
	Text    string
	Backend string
	Tier    Tier
}

// Generate runs one turn against the backend list. Admission is checked once
// up front; a denial aborts the whole turn.
func (g *Gateway) Generate(ctx context.Context, system string, history []Message, user string) (Result, error) {
	if !g.Configured() {
		return Result{}, ErrNoBackends
	}
	if err := g.guard.Admit(); err != nil {
		g.log.Printf("llm admission denied: %v", err)
		return Result{}, err
	}

	attempts := make([]error, 0, len(g.backends))
	for _, b := range g.backends {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		req := Request{
			System:      system,
			History:     history,
			User:        user,
			Temperature: g.temperature,
			MaxTokens:   g.capFor(b.Tier()),
		}
		g.log.Printf("llm request (%s, %s): ~%d tokens", b.Name(), b.Tier(), requestTokens(req))
		comp, err := b.Complete(ctx, req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Result{}, err
			}
			g.log.Printf("llm error (%s): %v", b.Name(), err)
			attempts = append(attempts, err)
			continue
		}
		if b.Tier() == TierPaid {
			in, out := usageOf(comp)
			var cost float64
			if p, ok := b.(priced); ok {
				cost = p.Pricing().Cost(in, out)
			}
			g.guard.Record(in, out, cost)
		}
		return Result{Text: comp.Text, Backend: b.Name(), Tier: b.Tier()}, nil
	}
	return Result{}, &ExhaustedError{Attempts: attempts}
}

func (g *Gateway) capFor(t Tier) int {
	if t == TierPaid {
		return g.paidCap
	}
	return g.freeCap
}

// Close closes every backend and returns the first error.
func (g *Gateway) Close() error {
	if g == nil {
		return nil
	}
	var first error
	for _, b := range g.backends {
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
