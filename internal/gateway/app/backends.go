package app

import (
	"context"
	"fmt"
	"log"

	"qrmenu/internal/gateway/config"
	"qrmenu/internal/llm"
)

// buildBackends turns the configured specs into ranked backends, preserving
// their order.
func buildBackends(ctx context.Context, specs []config.BackendSpec) ([]llm.Backend, error) {
	out := make([]llm.Backend, 0, len(specs))
	for _, s := range specs {
		pricing := llm.Pricing{InputPer1K: s.InputCostPer1K, OutputPer1K: s.OutputCostPer1K}
		tier := llm.ParseTier(s.Tier)
		switch s.Provider {
		case config.ProviderGemini:
			b, err := llm.NewGeminiBackend(ctx, llm.GeminiConfig{
				Name:    s.Name,
				APIKey:  s.APIKey,
				Model:   s.Model,
				Tier:    tier,
				Pricing: pricing,
			})
			if err != nil {
				return nil, fmt.Errorf("backend %s: %w", s.Name, err)
			}
			out = append(out, b)
		default:
			out = append(out, llm.NewChatBackend(llm.ChatConfig{
				Name:    s.Name,
				APIKey:  s.APIKey,
				Model:   s.Model,
				BaseURL: s.BaseURL,
				Tier:    tier,
				Pricing: pricing,
			}))
		}
		log.Printf("llm backend: %s (%s, %s, %s)", s.Name, s.Provider, s.Model, tier)
	}
	if len(out) == 0 {
		log.Printf("llm backend: none configured, using local design rules")
	}
	return out, nil
}
