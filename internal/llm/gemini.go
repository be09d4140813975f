package llm

import (
	"context"
	"errors"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiBackend is a thin wrapper around the official genai client.
type GeminiBackend struct {
	cli     *genai.Client
	name    string
	model   string
	tier    Tier
	pricing Pricing
}

type GeminiConfig struct {
	Name    string
	APIKey  string
	Model   string
	Tier    Tier
	Pricing Pricing
}

func NewGeminiBackend(ctx context.Context, cfg GeminiConfig) (*GeminiBackend, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "gemini:" + model
	}
	tier := cfg.Tier
	if tier == "" {
		tier = TierFree
	}
	return &GeminiBackend{cli: cli, name: name, model: model, tier: tier, pricing: cfg.Pricing}, nil
}

func (g *GeminiBackend) Name() string     { return g.name }
func (g *GeminiBackend) Tier() Tier       { return g.tier }
func (g *GeminiBackend) Pricing() Pricing { return g.pricing }
func (g *GeminiBackend) Close() error     { return nil }

func (g *GeminiBackend) Complete(ctx context.Context, req Request) (Completion, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(req.User, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return Completion{}, &BackendError{Backend: g.name, Status: apiErr.Code, Err: err}
		}
		return Completion{}, &BackendError{Backend: g.name, Err: err}
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return Completion{}, &BackendError{Backend: g.name, Err: ErrEmptyCompletion}
	}
	comp := Completion{Text: text}
	if u := resp.UsageMetadata; u != nil {
		comp.PromptTokens = int(u.PromptTokenCount)
		comp.CompletionTokens = int(u.CandidatesTokenCount)
		comp.Reported = true
	}
	return comp, nil
}
