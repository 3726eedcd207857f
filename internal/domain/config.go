package domain

import "time"

// Config holds the complete agrichain configuration.
type Config struct {
	// Server settings
	Server ServerConfig `json:"server" yaml:"server"`

	// Tier selects the infrastructure preset
	Tier Tier `json:"tier" yaml:"tier"`

	// Component configurations
	Repository RepositoryConfig `json:"repository" yaml:"repository"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
	EventBus   EventBusConfig   `json:"eventBus" yaml:"eventBus"`

	// External collaborators (weather, maps, models, text generation)
	Providers ProvidersConfig `json:"providers" yaml:"providers"`

	// Scoring policy knobs
	Scoring ScoringConfig `json:"scoring" yaml:"scoring"`

	// Async insight worker
	Worker WorkerConfig `json:"worker" yaml:"worker"`

	// Observability
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	ReadTimeout  int    `json:"readTimeout" yaml:"readTimeout"`   // seconds
	WriteTimeout int    `json:"writeTimeout" yaml:"writeTimeout"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json, text
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
}

// ProvidersConfig configures the external collaborators. API keys are
// never read from files; the loader fills them from the environment.
type ProvidersConfig struct {
	WeatherBaseURL string `json:"weatherBaseUrl" yaml:"weatherBaseUrl"`
	WeatherAPIKey  string `json:"-" yaml:"-"`

	NarratorBaseURL string  `json:"narratorBaseUrl" yaml:"narratorBaseUrl"`
	NarratorModel   string  `json:"narratorModel" yaml:"narratorModel"`
	NarratorTemp    float64 `json:"narratorTemperature" yaml:"narratorTemperature"`
	NarratorAPIKey  string  `json:"-" yaml:"-"`

	RoutingBaseURL string `json:"routingBaseUrl" yaml:"routingBaseUrl"`
	RoutingAPIKey  string `json:"-" yaml:"-"`

	// ModelURL points at the price/suitability model service. Empty disables it.
	ModelURL string `json:"modelUrl" yaml:"modelUrl"`

	// Timeout bounds every external call.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ScoringConfig holds tunable scoring policy.
type ScoringConfig struct {
	// CommissionRate is the reference intermediary commission (0.08 = 8%).
	CommissionRate float64 `json:"commissionRate" yaml:"commissionRate"`

	// NetworkRegions lists regions with established direct-buyer networks.
	NetworkRegions []string `json:"networkRegions" yaml:"networkRegions"`

	// DefaultTransitHours is used when the routing provider is unavailable.
	DefaultTransitHours float64 `json:"defaultTransitHours" yaml:"defaultTransitHours"`

	// AdvisoryWorkers bounds parallel advisory rule evaluation.
	AdvisoryWorkers int `json:"advisoryWorkers" yaml:"advisoryWorkers"`

	// ForecastTTL is how long surge forecasts and market stats stay cached.
	ForecastTTL time.Duration `json:"forecastTtl" yaml:"forecastTtl"`

	// WeatherTTL is how long live weather readings stay cached.
	WeatherTTL time.Duration `json:"weatherTtl" yaml:"weatherTtl"`
}

// WorkerConfig configures the async insight worker.
type WorkerConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Tier represents the deployment tier.
type Tier string

const (
	// TierCommunity runs on SQLite, an in-process cache and channels
	TierCommunity Tier = "community"

	// TierPro runs on PostgreSQL, Redis and NATS
	TierPro Tier = "pro"
)

// DefaultNetworkRegions are the states with established FPO and direct
// agri-buyer networks.
var DefaultNetworkRegions = []string{
	"maharashtra", "gujarat", "punjab", "haryana",
	"andhra pradesh", "telangana", "karnataka", "uttar pradesh",
}

// DefaultConfig returns a default configuration for the Community tier.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Tier: TierCommunity,
		Repository: RepositoryConfig{
			Driver:     "sqlite",
			SQLitePath: "./agrichain.db",
		},
		Cache: CacheConfig{
			Type:         "memory",
			LocalMaxSize: 10000,
			LocalTTL:     5 * time.Minute,
		},
		EventBus: EventBusConfig{
			Type:              "channel",
			ChannelBufferSize: 1000,
		},
		Providers: ProvidersConfig{
			WeatherBaseURL:  "https://api.openweathermap.org",
			NarratorBaseURL: "https://api.groq.com/openai/v1",
			NarratorModel:   "llama-3.3-70b-versatile",
			NarratorTemp:    0.3,
			RoutingBaseURL:  "https://api.olamaps.io",
			Timeout:         5 * time.Second,
		},
		Scoring: ScoringConfig{
			CommissionRate:      0.08,
			NetworkRegions:      append([]string(nil), DefaultNetworkRegions...),
			DefaultTransitHours: 6,
			AdvisoryWorkers:     10,
			ForecastTTL:         time.Hour,
			WeatherTTL:          10 * time.Minute,
		},
		Worker: WorkerConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "agrichain",
		},
	}
}

// ProConfig returns a configuration for the Pro tier.
func ProConfig() *Config {
	cfg := DefaultConfig()
	cfg.Tier = TierPro
	cfg.Repository = RepositoryConfig{
		Driver:       "postgres",
		PostgresHost: "localhost",
		PostgresPort: 5432,
		PostgresDB:   "agrichain",
	}
	cfg.Cache = CacheConfig{
		Type:           "redis",
		RedisAddr:      "localhost:6379",
		EnableTwoPhase: true,
		LocalMaxSize:   1000,
		LocalTTL:       time.Minute,
	}
	cfg.EventBus = EventBusConfig{
		Type:              "nats",
		NATSUrl:           "nats://localhost:4222",
		NATSMaxReconnects: 10,
		NATSReconnectWait: 5,
	}
	cfg.Tracing.Enabled = true
	return cfg
}
