// Package config loads agrichain configuration from an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agrichain/agrichain/internal/domain"
)

// ErrInvalidConfig is returned when the merged configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables read by Load.
const (
	EnvPrefix = "AGRICHAIN_"

	EnvWeatherAPIKey  = "OPENWEATHER_API_KEY"
	EnvNarratorAPIKey = "GROQ_API_KEY"
	EnvRoutingAPIKey  = "OLA_MAPS_API_KEY"
	EnvModelURL       = "AGRICHAIN_MODEL_URL"
)

// Load builds the configuration. The preset comes from AGRICHAIN_TIER
// (community unless "pro"); the YAML file at path, when set and present,
// is applied over it, then AGRICHAIN_* overrides and provider keys.
func Load(path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	if strings.EqualFold(os.Getenv(EnvPrefix+"TIER"), string(domain.TierPro)) {
		cfg = domain.ProConfig()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type override struct {
	key   string
	apply func(v string) error
}

func str(dst *string) func(string) error {
	return func(v string) error { *dst = v; return nil }
}

func integer(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func boolean(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func duration(dst *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}

func float(dst *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}

func applyEnv(cfg *domain.Config) error {
	overrides := []override{
		{"HOST", str(&cfg.Server.Host)},
		{"PORT", integer(&cfg.Server.Port)},

		{"DB_DRIVER", str(&cfg.Repository.Driver)},
		{"SQLITE_PATH", str(&cfg.Repository.SQLitePath)},
		{"POSTGRES_HOST", str(&cfg.Repository.PostgresHost)},
		{"POSTGRES_PORT", integer(&cfg.Repository.PostgresPort)},
		{"POSTGRES_USER", str(&cfg.Repository.PostgresUser)},
		{"POSTGRES_PASSWORD", str(&cfg.Repository.PostgresPassword)},
		{"POSTGRES_DB", str(&cfg.Repository.PostgresDB)},
		{"POSTGRES_SSLMODE", str(&cfg.Repository.PostgresSSLMode)},

		{"CACHE_TYPE", str(&cfg.Cache.Type)},
		{"REDIS_ADDR", str(&cfg.Cache.RedisAddr)},
		{"REDIS_PASSWORD", str(&cfg.Cache.RedisPassword)},

		{"BUS_TYPE", str(&cfg.EventBus.Type)},
		{"NATS_URL", str(&cfg.EventBus.NATSUrl)},
		{"NATS_TOKEN", str(&cfg.EventBus.NATSToken)},

		{"PROVIDER_TIMEOUT", duration(&cfg.Providers.Timeout)},
		{"NARRATOR_MODEL", str(&cfg.Providers.NarratorModel)},

		{"COMMISSION_RATE", float(&cfg.Scoring.CommissionRate)},
		{"DEFAULT_TRANSIT_HOURS", float(&cfg.Scoring.DefaultTransitHours)},

		{"WORKER_ENABLED", boolean(&cfg.Worker.Enabled)},
		{"LOG_LEVEL", str(&cfg.Logging.Level)},
		{"LOG_FORMAT", str(&cfg.Logging.Format)},
		{"TRACING_ENABLED", boolean(&cfg.Tracing.Enabled)},
	}

	for _, o := range overrides {
		v, ok := os.LookupEnv(EnvPrefix + o.key)
		if !ok || v == "" {
			continue
		}
		if err := o.apply(v); err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, o.key, err)
		}
	}

	if os.Getenv(EnvPrefix+"DEBUG") == "true" {
		cfg.Logging.Level = "debug"
	}

	// Provider credentials only ever come from the environment.
	cfg.Providers.WeatherAPIKey = os.Getenv(EnvWeatherAPIKey)
	cfg.Providers.NarratorAPIKey = os.Getenv(EnvNarratorAPIKey)
	cfg.Providers.RoutingAPIKey = os.Getenv(EnvRoutingAPIKey)
	if v := os.Getenv(EnvModelURL); v != "" {
		cfg.Providers.ModelURL = v
	}
	return nil
}

// Validate reports every problem with cfg in one error wrapping ErrInvalidConfig.
func Validate(cfg *domain.Config) error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(cfg.Server.Port > 0 && cfg.Server.Port < 65536, "server.port %d out of range", cfg.Server.Port)
	check(cfg.Tier == domain.TierCommunity || cfg.Tier == domain.TierPro, "unknown tier %q", cfg.Tier)
	check(oneOf(cfg.Repository.Driver, "sqlite", "postgres"), "unknown repository driver %q", cfg.Repository.Driver)
	check(oneOf(cfg.Cache.Type, "memory", "redis"), "unknown cache type %q", cfg.Cache.Type)
	check(oneOf(cfg.EventBus.Type, "channel", "nats"), "unknown event bus type %q", cfg.EventBus.Type)
	check(oneOf(cfg.Logging.Level, "debug", "info", "warn", "error"), "unknown log level %q", cfg.Logging.Level)
	check(oneOf(cfg.Logging.Format, "json", "text"), "unknown log format %q", cfg.Logging.Format)
	check(cfg.Providers.Timeout > 0, "providers.timeout must be positive")
	check(cfg.Scoring.CommissionRate > 0 && cfg.Scoring.CommissionRate < 1, "scoring.commissionRate %v must be between 0 and 1", cfg.Scoring.CommissionRate)
	check(cfg.Scoring.DefaultTransitHours > 0, "scoring.defaultTransitHours must be positive")
	check(cfg.Scoring.AdvisoryWorkers > 0, "scoring.advisoryWorkers must be positive")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// NewLogger builds the process logger from the logging section.
func NewLogger(cfg domain.LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
