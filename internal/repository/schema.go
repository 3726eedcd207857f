package repository

// Schema definitions for the agrichain database.
// Compatible with both SQLite and PostgreSQL.

const schemaArrivals = `
CREATE TABLE IF NOT EXISTS arrivals (
    commodity TEXT NOT NULL,
    state TEXT NOT NULL,
    district TEXT NOT NULL DEFAULT '',
    market TEXT NOT NULL,
    arrival_date TIMESTAMP NOT NULL,
    modal_price REAL NOT NULL,
    PRIMARY KEY (commodity, state, market, arrival_date)
);

CREATE INDEX IF NOT EXISTS idx_arrivals_pair ON arrivals(commodity, state);
CREATE INDEX IF NOT EXISTS idx_arrivals_date ON arrivals(commodity, state, arrival_date);
`

const schemaInsights = `
CREATE TABLE IF NOT EXISTS insights (
    id TEXT PRIMARY KEY,
    crop TEXT NOT NULL,
    state TEXT NOT NULL,
    spoilage_tier TEXT NOT NULL,
    confidence TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_insights_pair ON insights(crop, state);
CREATE INDEX IF NOT EXISTS idx_insights_timestamp ON insights(timestamp);
`

// schemaAdvisoryRules holds operator-defined CEL advisories.
// Deletes are soft so past insights stay explainable.
const schemaAdvisoryRules = `
CREATE TABLE IF NOT EXISTS advisory_rules (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    expression TEXT NOT NULL,
    message TEXT NOT NULL,
    severity TEXT NOT NULL,
    enabled INTEGER NOT NULL DEFAULT 1,
    deleted INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_advisory_rules_deleted ON advisory_rules(deleted);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaArrivals,
		schemaInsights,
		schemaAdvisoryRules,
	}
}
