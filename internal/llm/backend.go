package llm

import (
	"context"
	"strings"
)

// Tier decides the output cap and whether usage is charged against the budget.
type Tier string

const (
	TierPaid Tier = "paid"
	TierFree Tier = "free"
)

// ParseTier maps config strings onto a Tier. Anything unrecognised is free.
func ParseTier(s string) Tier {
	if strings.EqualFold(strings.TrimSpace(s), string(TierPaid)) {
		return TierPaid
	}
	return TierFree
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn sent to a backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the backend-neutral shape of a single completion call.
type Request struct {
	System      string
	History     []Message
	User        string
	Temperature float32
	MaxTokens   int
}

// Completion is the raw text of a successful call plus the token counts the
// backend reported. Reported is false when the backend sent no usage block.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	Reported         bool
}

// Backend is one ranked text-generation endpoint.
type Backend interface {
	Name() string
	Tier() Tier
	Complete(ctx context.Context, req Request) (Completion, error)
	Close() error
}

// Pricing converts token counts to an estimated spend in USD.
type Pricing struct {
	InputPer1K  float64
	OutputPer1K float64
}

func (p Pricing) Cost(in, out int) float64 {
	return float64(in)/1000*p.InputPer1K + float64(out)/1000*p.OutputPer1K
}

// priced is implemented by backends that carry their own pricing.
type priced interface {
	Pricing() Pricing
}
