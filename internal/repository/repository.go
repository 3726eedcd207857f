// Package repository provides data persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/profiles"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:     db,
		driver: cfg.Driver,
	}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// SaveArrivals upserts a batch of arrival observations in one transaction.
// Commodity and state are stored in title case so lookups are case-insensitive.
// Re-importing the same (commodity, state, market, date) replaces the price.
func (r *SQLRepository) SaveArrivals(ctx context.Context, records []domain.ArrivalRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	for i, rec := range records {
		if err := validateArrival(rec); err != nil {
			return 0, fmt.Errorf("%w: record %d: %s", ErrInvalidInput, i, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO arrivals (
			commodity, state, district, market, arrival_date, modal_price
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(commodity, state, market, arrival_date) DO UPDATE SET
			district = excluded.district,
			modal_price = excluded.modal_price
	`

	stmt, err := tx.PrepareContext(ctx, r.rebind(query))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			profiles.Normalize(rec.Commodity), profiles.Normalize(rec.State),
			strings.TrimSpace(rec.District), strings.TrimSpace(rec.Market),
			rec.ArrivalDate.UTC(), rec.ModalPrice,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

func validateArrival(rec domain.ArrivalRecord) error {
	switch {
	case strings.TrimSpace(rec.Commodity) == "":
		return errors.New("commodity is required")
	case strings.TrimSpace(rec.State) == "":
		return errors.New("state is required")
	case strings.TrimSpace(rec.Market) == "":
		return errors.New("market is required")
	case rec.ArrivalDate.IsZero():
		return errors.New("arrival_date is required")
	case rec.ModalPrice < 0:
		return errors.New("modal_price must not be negative")
	}
	return nil
}

// ListArrivals returns every arrival for a commodity and state, oldest first.
func (r *SQLRepository) ListArrivals(ctx context.Context, commodity, state string) ([]domain.ArrivalRecord, error) {
	query := `
		SELECT commodity, state, district, market, arrival_date, modal_price
		FROM arrivals
		WHERE commodity = ? AND state = ?
		ORDER BY arrival_date, market
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), profiles.Normalize(commodity), profiles.Normalize(state))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.ArrivalRecord{}
	for rows.Next() {
		var rec domain.ArrivalRecord
		if err := rows.Scan(
			&rec.Commodity, &rec.State, &rec.District, &rec.Market,
			&rec.ArrivalDate, &rec.ModalPrice,
		); err != nil {
			return nil, err
		}
		rec.ArrivalDate = rec.ArrivalDate.UTC()
		records = append(records, rec)
	}

	return records, rows.Err()
}

// SaveInsight stores a composed insight as a JSON document.
func (r *SQLRepository) SaveInsight(ctx context.Context, insight *domain.Insight) error {
	if insight == nil || insight.ID == "" {
		return fmt.Errorf("%w: insight id is required", ErrInvalidInput)
	}

	payload, err := json.Marshal(insight)
	if err != nil {
		return fmt.Errorf("failed to encode insight: %w", err)
	}

	query := `
		INSERT INTO insights (
			id, crop, state, spoilage_tier, confidence, timestamp, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, r.rebind(query),
		insight.ID, insight.Crop, insight.State,
		string(insight.Spoilage.RiskTier), string(insight.Explanation.Confidence),
		insight.Timestamp.UTC(), string(payload),
	)
	return err
}

// GetInsight retrieves an insight by ID.
func (r *SQLRepository) GetInsight(ctx context.Context, id string) (*domain.Insight, error) {
	query := `SELECT payload FROM insights WHERE id = ?`

	var payload string
	err := r.db.QueryRowContext(ctx, r.rebind(query), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var insight domain.Insight
	if err := json.Unmarshal([]byte(payload), &insight); err != nil {
		return nil, fmt.Errorf("failed to parse insight %s: %w", id, err)
	}
	return &insight, nil
}

// SaveAdvisoryRule creates or replaces an advisory rule.
// Saving a previously deleted ID restores it.
func (r *SQLRepository) SaveAdvisoryRule(ctx context.Context, rule *domain.AdvisoryRule) error {
	if rule == nil || rule.ID == "" {
		return fmt.Errorf("%w: rule id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(rule.Expression) == "" {
		return fmt.Errorf("%w: expression is required", ErrInvalidInput)
	}

	enabled := 0
	if rule.Enabled {
		enabled = 1
	}

	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}

	query := `
		INSERT INTO advisory_rules (
			id, name, description, expression, message, severity, enabled, deleted, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			expression = excluded.expression,
			message = excluded.message,
			severity = excluded.severity,
			enabled = excluded.enabled,
			deleted = 0,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		rule.ID, rule.Name, rule.Description, rule.Expression,
		rule.Message, string(rule.Severity), enabled,
		rule.CreatedAt.UTC(), now,
	)
	return err
}

const advisoryColumns = `id, name, description, expression, message, severity, enabled, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdvisoryRule(row rowScanner) (*domain.AdvisoryRule, error) {
	var rule domain.AdvisoryRule
	var description sql.NullString
	var severity string
	var enabled int

	if err := row.Scan(
		&rule.ID, &rule.Name, &description, &rule.Expression,
		&rule.Message, &severity, &enabled, &rule.CreatedAt,
	); err != nil {
		return nil, err
	}

	rule.Description = description.String
	rule.Severity = domain.RiskTier(severity)
	rule.Enabled = enabled == 1
	rule.CreatedAt = rule.CreatedAt.UTC()
	return &rule, nil
}

// GetAdvisoryRule retrieves a non-deleted advisory rule.
func (r *SQLRepository) GetAdvisoryRule(ctx context.Context, id string) (*domain.AdvisoryRule, error) {
	query := `SELECT ` + advisoryColumns + ` FROM advisory_rules WHERE id = ? AND deleted = 0`

	rule, err := scanAdvisoryRule(r.db.QueryRowContext(ctx, r.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// ListAdvisoryRules retrieves all non-deleted advisory rules, enabled or not.
func (r *SQLRepository) ListAdvisoryRules(ctx context.Context) ([]*domain.AdvisoryRule, error) {
	query := `SELECT ` + advisoryColumns + ` FROM advisory_rules WHERE deleted = 0 ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []*domain.AdvisoryRule{}
	for rows.Next() {
		rule, err := scanAdvisoryRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

// DeleteAdvisoryRule soft-deletes an advisory rule.
func (r *SQLRepository) DeleteAdvisoryRule(ctx context.Context, id string) error {
	query := `
		UPDATE advisory_rules
		SET deleted = 1, enabled = 0, updated_at = ?
		WHERE id = ? AND deleted = 0
	`

	result, err := r.db.ExecContext(ctx, r.rebind(query), time.Now().UTC(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
