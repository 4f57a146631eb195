package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Container ContainerConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name  string `validate:"required"`
	Env   string `validate:"oneof=local production testing"`
	Debug bool
	Addr  string `validate:"required"` // host:port the inspection server listens on

	// ShutdownTimeout bounds the graceful shutdown of the inspection server.
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type ContainerConfig struct {
	Adapter string `validate:"oneof=native memory"`
	File    string // YAML service configuration, optional
}

type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string `validate:"required_if=Enabled true"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads .env (if present), populates a Config from environment
// variables and validates it. Call once at bootstrap:
//
//	cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	cfg := &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "container"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			Addr:  env("APP_ADDR", ":8000"),

			ShutdownTimeout: time.Duration(envInt("APP_SHUTDOWN_TIMEOUT", 10)) * time.Second,
		},
		Container: ContainerConfig{
			Adapter: env("CONTAINER_ADAPTER", "native"),
			File:    env("CONTAINER_CONFIG", ""),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled:   envBool("METRICS_ENABLED", true),
			Namespace: env("METRICS_NAMESPACE", "container"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the field constraints and reports the first violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("config: %s is invalid (%s %s)", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("config: %w", err)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
