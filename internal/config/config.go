package config

import "github.com/caarlos0/env/v10"

// Config centralizes service configuration loaded from environment
// variables.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// LLM-backed belief evaluator. Optional: when LLMAPIKey is empty
	// the engine falls back to its built-in keyword evaluator.
	LLMAPIKey  string `env:"LLM_API_KEY"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gpt-5.1"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`
	ShiftAlertTo string `env:"SHIFT_ALERT_TO"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret            string `env:"JWT_SECRET,required"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	// OperatorBootstrapSecret, when set, provisions (or updates) a
	// single operator named "bootstrap" on startup so an empty
	// deployment always has one working credential.
	OperatorBootstrapSecret string `env:"OPERATOR_BOOTSTRAP_SECRET"`

	// Engine tunables (spec §9 Open Questions): exposed here rather
	// than hardcoded. cmd/api applies ErosionHardeningFactor and
	// TriggerDefaultCooldown to the engine; HistoryEMAAlpha is parsed
	// but not read there, so characters keep History's built-in alpha.
	HistoryEMAAlpha        float64 `env:"HISTORY_EMA_ALPHA" envDefault:"0.05"`
	ErosionHardeningFactor float64 `env:"EROSION_HARDENING_FACTOR" envDefault:"1.1"`
	TriggerDefaultCooldown int     `env:"TRIGGER_DEFAULT_COOLDOWN" envDefault:"3"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
