package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// BackendSpec is one ranked model backend. APIKey is resolved from APIKeyEnv
// at load time and never read from the file itself.
type BackendSpec struct {
	Name            string  `yaml:"name"`
	Provider        string  `yaml:"provider"`
	Model           string  `yaml:"model"`
	BaseURL         string  `yaml:"base_url"`
	APIKeyEnv       string  `yaml:"api_key_env"`
	Tier            string  `yaml:"tier"`
	InputCostPer1K  float64 `yaml:"input_cost_per_1k"`
	OutputCostPer1K float64 `yaml:"output_cost_per_1k"`

	APIKey string `yaml:"-"`
}

type backendsFile struct {
	Backends []BackendSpec `yaml:"backends"`
}

// LoadBackends reads the ranked backend list from a YAML file. Entries whose
// key variable is unset are skipped so one file can serve every environment.
func LoadBackends(path string) ([]BackendSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backends file: %w", err)
	}
	var f backendsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse backends file: %w", err)
	}
	out := make([]BackendSpec, 0, len(f.Backends))
	for i, b := range f.Backends {
		b.Provider = strings.ToLower(strings.TrimSpace(b.Provider))
		if b.Provider == "" {
			b.Provider = ProviderOpenAI
		}
		if b.Provider != ProviderOpenAI && b.Provider != ProviderGemini {
			return nil, fmt.Errorf("backend %d (%s): unknown provider %q", i, b.Name, b.Provider)
		}
		if strings.TrimSpace(b.Model) == "" {
			return nil, fmt.Errorf("backend %d (%s): model is required", i, b.Name)
		}
		switch strings.ToLower(strings.TrimSpace(b.Tier)) {
		case "", "free":
			b.Tier = "free"
		case "paid":
			b.Tier = "paid"
		default:
			return nil, fmt.Errorf("backend %d (%s): unknown tier %q", i, b.Name, b.Tier)
		}
		if b.APIKeyEnv != "" {
			b.APIKey = strings.TrimSpace(os.Getenv(b.APIKeyEnv))
			if b.APIKey == "" {
				continue
			}
		}
		out = append(out, b)
	}
	return out, nil
}

// backendsFromEnv ranks whatever keys are present: OpenAI (paid), then Groq
// and Gemini (free).
func backendsFromEnv() []BackendSpec {
	var out []BackendSpec
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		out = append(out, BackendSpec{
			Name:            "openai",
			Provider:        ProviderOpenAI,
			Model:           firstNonEmpty(strings.TrimSpace(os.Getenv("OPENAI_MODEL")), "gpt-4o-mini"),
			BaseURL:         strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
			Tier:            "paid",
			InputCostPer1K:  0.00015,
			OutputCostPer1K: 0.0006,
			APIKey:          key,
		})
	}
	if key := strings.TrimSpace(os.Getenv("GROQ_API_KEY")); key != "" {
		out = append(out, BackendSpec{
			Name:     "groq",
			Provider: ProviderOpenAI,
			Model:    firstNonEmpty(strings.TrimSpace(os.Getenv("GROQ_MODEL")), "llama-3.3-70b-versatile"),
			BaseURL:  "https://api.groq.com/openai/v1/chat/completions",
			Tier:     "free",
			APIKey:   key,
		})
	}
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		out = append(out, BackendSpec{
			Name:     "gemini",
			Provider: ProviderGemini,
			Model:    firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.5-flash"),
			Tier:     "free",
			APIKey:   key,
		})
	}
	return out
}
