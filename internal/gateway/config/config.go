package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	PublicBaseURL  string
	DatabaseURL    string
	AllowedOrigins []string
	Artifact       ArtifactConfig
	LLM            LLMConfig
	Design         DesignConfig
	Sessions       SessionConfig
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Dir stores pages on local disk when S3 is not configured.
	Dir string
}

type LLMConfig struct {
	BackendsFile  string
	Backends      []BackendSpec
	RPM           int
	BudgetUSD     float64
	PaidMaxTokens int
	FreeMaxTokens int
	Temperature   float32
}

type DesignConfig struct {
	ChangeDelay    time.Duration
	BriefingPeriod string
}

type SessionConfig struct {
	TTL        time.Duration
	MaxEntries int
}

const (
	defaultRPM         = 10
	defaultBudgetUSD   = 5.0
	defaultChangeDelay = 150 * time.Millisecond
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	return FromEnv(*port)
}

// FromEnv builds the config from the environment. PORT overrides port.
func FromEnv(port string) (*Config, error) {
	if envPort := strings.TrimSpace(os.Getenv("PORT")); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			port = envPort
		} else {
			port = ":" + envPort
		}
	}

	env := firstNonEmpty(strings.TrimSpace(os.Getenv("APP_ENV")), "local")

	llmCfg, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}
	delay, err := envDuration("DESIGN_CHANGE_DELAY_MS", defaultChangeDelay, time.Millisecond)
	if err != nil {
		return nil, err
	}
	ttl, err := envDuration("SESSION_TTL_MINUTES", 0, time.Minute)
	if err != nil {
		return nil, err
	}
	maxSessions, err := envInt("SESSION_MAX_ENTRIES", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           port,
		Env:            env,
		PublicBaseURL:  strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Artifact:       loadArtifactConfig(env),
		LLM:            llmCfg,
		Design: DesignConfig{
			ChangeDelay:    delay,
			BriefingPeriod: strings.TrimSpace(os.Getenv("BRIEFING_SALES_PERIOD")),
		},
		Sessions: SessionConfig{TTL: ttl, MaxEntries: maxSessions},
	}
	if strings.EqualFold(env, "local") {
		applyLocalDefaults(cfg)
	}
	return cfg, nil
}

func loadLLMConfig() (LLMConfig, error) {
	rpm, err := envInt("LLM_RPM", defaultRPM)
	if err != nil {
		return LLMConfig{}, err
	}
	budget, err := envFloat("LLM_BUDGET_USD", defaultBudgetUSD)
	if err != nil {
		return LLMConfig{}, err
	}
	paidCap, err := envInt("LLM_PAID_MAX_TOKENS", 0)
	if err != nil {
		return LLMConfig{}, err
	}
	freeCap, err := envInt("LLM_FREE_MAX_TOKENS", 0)
	if err != nil {
		return LLMConfig{}, err
	}
	temp, err := envFloat("LLM_TEMPERATURE", 0)
	if err != nil {
		return LLMConfig{}, err
	}

	cfg := LLMConfig{
		BackendsFile:  strings.TrimSpace(os.Getenv("LLM_BACKENDS_FILE")),
		RPM:           rpm,
		BudgetUSD:     budget,
		PaidMaxTokens: paidCap,
		FreeMaxTokens: freeCap,
		Temperature:   float32(temp),
	}
	if cfg.BackendsFile != "" {
		cfg.Backends, err = LoadBackends(cfg.BackendsFile)
		if err != nil {
			return LLMConfig{}, err
		}
	} else {
		cfg.Backends = backendsFromEnv()
	}
	return cfg, nil
}

func loadArtifactConfig(env string) ArtifactConfig {
	endpoint := firstNonEmpty(
		strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT")),
		strings.TrimSpace(os.Getenv("ARTIFACT_MINIO_ENDPOINT")),
	)
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "qrmenu-pages"),
		UseSSL:    resolveArtifactUseSSL(env),
		Dir:       strings.TrimSpace(os.Getenv("ARTIFACT_DIR")),
	}
}

func resolveArtifactUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func envFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func envDuration(key string, def, unit time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s: invalid value %q", key, raw)
	}
	return time.Duration(v) * unit, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
