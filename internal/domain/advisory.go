package domain

import "time"

// AdvisoryRule is an operator-defined CEL check over a composed insight.
// When it triggers, Message is added to the payload's risk call-outs.
type AdvisoryRule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// CEL expression returning bool, int or double
	Expression string `json:"expression"`

	// Message shown to the farmer when the rule triggers
	Message string `json:"message"`

	// Severity orders triggered advisories; High sorts first
	Severity RiskTier `json:"severity"`

	// Whether rule is active
	Enabled bool `json:"enabled"`

	CreatedAt time.Time `json:"created_at"`
}

// AdvisoryResult is the outcome of evaluating one advisory rule.
type AdvisoryResult struct {
	RuleID    string   `json:"rule_id"`
	Triggered bool     `json:"triggered"`
	Value     float64  `json:"value"`
	Message   string   `json:"message,omitempty"`
	Severity  RiskTier `json:"severity"`
	Error     string   `json:"error,omitempty"`
	ProcessUs int64    `json:"process_us"`
}

// AdvisoryFacts are the variables exposed to advisory expressions.
type AdvisoryFacts struct {
	Crop          string
	State         string
	SpoilageScore int
	SpoilageTier  RiskTier
	DaysSafe      int
	BypassScore   int
	SurgeAdvice   SurgeAdvice
	Trend         PriceTrend
	Temperature   float64
	Humidity      float64
	Quantity      float64
}
