package config

func applyLocalDefaults(cfg *Config) {
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost" + cfg.Port
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if cfg.Artifact.Enabled {
		if cfg.Artifact.AccessKey == "" {
			cfg.Artifact.AccessKey = "qrmenu"
		}
		if cfg.Artifact.SecretKey == "" {
			cfg.Artifact.SecretKey = "qrmenu123"
		}
	}
}
