// Package domain defines the core interfaces and types for agrichain.
package domain

import (
	"context"
	"time"
)

// Repository defines the interface for data persistence.
type Repository interface {
	// Market arrival history
	SaveArrivals(ctx context.Context, records []ArrivalRecord) (int, error)
	ListArrivals(ctx context.Context, commodity, state string) ([]ArrivalRecord, error)

	// Composed insights
	SaveInsight(ctx context.Context, insight *Insight) error
	GetInsight(ctx context.Context, id string) (*Insight, error)

	// Advisory rule configuration
	SaveAdvisoryRule(ctx context.Context, rule *AdvisoryRule) error
	GetAdvisoryRule(ctx context.Context, id string) (*AdvisoryRule, error)
	ListAdvisoryRules(ctx context.Context) ([]*AdvisoryRule, error)
	DeleteAdvisoryRule(ctx context.Context, id string) error

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string `json:"driver" yaml:"driver"`

	// SQLite specific
	SQLitePath string `json:"sqlitePath" yaml:"sqlitePath"`

	// PostgreSQL specific
	PostgresHost     string `json:"postgresHost" yaml:"postgresHost"`
	PostgresPort     int    `json:"postgresPort" yaml:"postgresPort"`
	PostgresUser     string `json:"postgresUser" yaml:"postgresUser"`
	PostgresPassword string `json:"-" yaml:"postgresPassword"`
	PostgresDB       string `json:"postgresDb" yaml:"postgresDb"`
	PostgresSSLMode  string `json:"postgresSslMode" yaml:"postgresSslMode"`

	// Connection pool settings
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}
