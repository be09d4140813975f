package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	OpenAIBaseURL = "https://api.openai.com/v1/chat/completions"
	GroqBaseURL   = "https://api.groq.com/openai/v1/chat/completions"
)

// ChatBackend calls an OpenAI-compatible Chat Completions endpoint
// (OpenAI, Groq, OpenRouter, local proxies).
type ChatBackend struct {
	http    *http.Client
	name    string
	apiKey  string
	model   string
	baseURL string
	tier    Tier
	pricing Pricing
}

type ChatConfig struct {
	Name    string
	APIKey  string
	Model   string
	BaseURL string
	Tier    Tier
	Pricing Pricing
	Timeout time.Duration
}

func NewChatBackend(cfg ChatConfig) *ChatBackend {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = OpenAIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "chat:" + cfg.Model
	}
	tier := cfg.Tier
	if tier == "" {
		tier = TierFree
	}
	return &ChatBackend{
		http:    &http.Client{Timeout: timeout},
		name:    name,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: baseURL,
		tier:    tier,
		pricing: cfg.Pricing,
	}
}

func (c *ChatBackend) Name() string     { return c.name }
func (c *ChatBackend) Tier() Tier       { return c.tier }
func (c *ChatBackend) Pricing() Pricing { return c.pricing }
func (c *ChatBackend) Close() error     { return nil }

type chatReq struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends system + history + user as one chat request.
func (c *ChatBackend) Complete(ctx context.Context, req Request) (Completion, error) {
	msgs := make([]Message, 0, len(req.History)+2)
	msgs = append(msgs, Message{Role: RoleSystem, Content: req.System})
	msgs = append(msgs, req.History...)
	msgs = append(msgs, Message{Role: RoleUser, Content: req.User})

	b, err := json.Marshal(chatReq{
		Model:       c.model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return Completion{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return Completion{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Completion{}, &BackendError{Backend: c.name, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return Completion{}, &BackendError{
			Backend: c.name,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("unexpected status %s: %s", resp.Status, truncateBody(body)),
		}
	}

	var out chatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Completion{}, &BackendError{Backend: c.name, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return Completion{}, &BackendError{Backend: c.name, Status: resp.StatusCode, Err: ErrEmptyCompletion}
	}
	comp := Completion{Text: out.Choices[0].Message.Content}
	if out.Usage != nil {
		comp.PromptTokens = out.Usage.PromptTokens
		comp.CompletionTokens = out.Usage.CompletionTokens
		comp.Reported = true
	}
	return comp, nil
}
