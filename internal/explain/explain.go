// Package explain ranks evidence and builds the farmer-facing justification
// for a recommendation. Every payload passes Validate before it is served.
package explain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agrichain/agrichain/internal/domain"
)

const (
	// TopN is the number of reason lines kept in a payload.
	TopN = 3

	// PlaceholderImpact is the impact of the synthetic item used when no signal applies.
	PlaceholderImpact = 0.35

	// PlaceholderReason explains the synthetic item.
	PlaceholderReason = "Limited live signals available; recommendation based on available baseline inputs"

	// DefaultAlternative is used when no alternative action is supplied.
	DefaultAlternative = "If immediate action is not possible, use shaded ventilated storage and sell at the nearest mandi within 48 hours."

	highConfidence   = 0.75
	mediumConfidence = 0.45
)

// ErrInvalidPayload is wrapped by every validation failure.
var ErrInvalidPayload = errors.New("explainable payload failed validation")

// ValidationError lists every check a payload failed.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "explainability validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPayload
}

// Signals is the normalized subset of assessments the ranker understands.
// Nil or empty fields contribute no evidence.
type Signals struct {
	Weather        string          `json:"weather,omitempty"`
	PriceTrend     string          `json:"price_trend,omitempty"`
	PredictedPrice *float64        `json:"predicted_price,omitempty"`
	SoilPH         *float64        `json:"soil_ph,omitempty"`
	SoilMoisture   *float64        `json:"soil_moisture,omitempty"`
	SpoilageRisk   domain.RiskTier `json:"spoilage_risk,omitempty"`
	TransitHours   *float64        `json:"transit_hours,omitempty"`
	DaysSafe       *int            `json:"days_safe,omitempty"`
}

// Request is the input to Build.
type Request struct {
	Recommendation string
	Evidence       []domain.EvidenceItem
	Risks          []string
	Alternative    string

	// ConfidenceScore overrides the mean-impact confidence when set.
	ConfidenceScore *float64

	// DataLastUpdated defaults to the current UTC time in RFC 3339.
	DataLastUpdated string
}

var severeWeather = []string{"rain", "storm", "heatwave", "high humidity"}
var volatileWeather = []string{"heavy rain", "storm", "extreme heat"}

// FromSignals turns signals into evidence in source order: weather, price, soil, spoilage.
// It always returns at least one item.
func FromSignals(s Signals) []domain.EvidenceItem {
	var items []domain.EvidenceItem

	if weather := strings.TrimSpace(s.Weather); weather != "" {
		impact := 0.45
		if containsAny(strings.ToLower(weather), severeWeather) {
			impact = 0.7
		}
		items = append(items, domain.EvidenceItem{Source: domain.SourceWeather, Impact: impact, Reason: weather})
	}

	trend := strings.TrimSpace(s.PriceTrend)
	if trend != "" || s.PredictedPrice != nil {
		var parts []string
		if trend != "" {
			parts = append(parts, "Price trend is "+trend)
		}
		if s.PredictedPrice != nil {
			parts = append(parts, fmt.Sprintf("Expected price is ₹%s/quintal", formatNumber(*s.PredictedPrice)))
		}
		impact := 0.6
		if strings.Contains(strings.ToLower(trend), "rising") {
			impact = 0.8
		}
		items = append(items, domain.EvidenceItem{Source: domain.SourcePrice, Impact: impact, Reason: strings.Join(parts, ", ")})
	}

	var soil []string
	if s.SoilPH != nil {
		soil = append(soil, "soil pH is "+formatNumber(*s.SoilPH))
	}
	if s.SoilMoisture != nil {
		soil = append(soil, "soil moisture is "+formatNumber(*s.SoilMoisture)+"%")
	}
	if len(soil) > 0 {
		items = append(items, domain.EvidenceItem{Source: domain.SourceSoil, Impact: 0.55, Reason: strings.Join(soil, " and ")})
	}

	risk := domain.RiskTier(strings.TrimSpace(string(s.SpoilageRisk)))
	if risk != "" || s.TransitHours != nil || s.DaysSafe != nil {
		var parts []string
		if risk != "" {
			parts = append(parts, "spoilage risk is "+string(risk))
		}
		if s.TransitHours != nil {
			parts = append(parts, "transit time is "+formatNumber(*s.TransitHours)+" hours")
		}
		if s.DaysSafe != nil {
			parts = append(parts, "safe selling window is "+strconv.Itoa(*s.DaysSafe)+" days")
		}
		impact := 0.5
		if strings.EqualFold(string(risk), string(domain.TierHigh)) {
			impact = 0.75
		}
		items = append(items, domain.EvidenceItem{Source: domain.SourceSpoilage, Impact: impact, Reason: strings.Join(parts, ", ")})
	}

	if len(items) == 0 {
		items = append(items, domain.EvidenceItem{Source: domain.SourceWeather, Impact: PlaceholderImpact, Reason: PlaceholderReason})
	}
	return items
}

// Risks derives risk call-outs from the signals.
func Risks(s Signals) []string {
	var risks []string
	switch strings.ToLower(strings.TrimSpace(string(s.SpoilageRisk))) {
	case "high":
		risks = append(risks, "High spoilage chance if sale is delayed")
	case "medium":
		risks = append(risks, "Moderate spoilage chance in current storage/transit conditions")
	}
	if containsAny(strings.ToLower(s.Weather), volatileWeather) {
		risks = append(risks, "Weather volatility may shift harvest or transit timing")
	}
	return risks
}

// Rank orders items by impact, highest first, and keeps the top n.
// Equal impacts keep their input order. The input is not modified.
func Rank(items []domain.EvidenceItem, n int) []domain.EvidenceItem {
	ranked := append([]domain.EvidenceItem(nil), items...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Impact > ranked[j].Impact })
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ReasonLine renders an item as "<Label>: <reason>".
func ReasonLine(item domain.EvidenceItem) string {
	label := item.Source.Label()
	if reason := strings.TrimSpace(item.Reason); reason != "" {
		return label + ": " + reason
	}
	metric := strings.TrimSpace(item.Metric)
	if metric != "" && item.Value != "" {
		return fmt.Sprintf("%s: %s is %s", label, metric, item.Value)
	}
	return label + ": Important signal detected"
}

// ConfidenceFor maps a score to its label.
func ConfidenceFor(score float64) domain.Confidence {
	switch {
	case score >= highConfidence:
		return domain.ConfidenceHigh
	case score >= mediumConfidence:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// Build assembles a payload without validating it.
func Build(req Request) domain.ExplainablePayload {
	evidence := make([]domain.EvidenceItem, len(req.Evidence))
	for i, item := range req.Evidence {
		item.Impact = clamp01(item.Impact)
		evidence[i] = item
	}
	top := Rank(evidence, TopN)

	reasons := make([]string, 0, len(top))
	for _, item := range top {
		reasons = append(reasons, ReasonLine(item))
	}

	score := PlaceholderImpact
	if req.ConfidenceScore != nil {
		score = clamp01(*req.ConfidenceScore)
	} else if len(top) > 0 {
		var sum float64
		for _, item := range top {
			sum += item.Impact
		}
		score = sum / float64(len(top))
	}

	risks := []string{}
	for _, r := range req.Risks {
		if r = strings.TrimSpace(r); r != "" {
			risks = append(risks, r)
		}
	}

	alternative := strings.TrimSpace(req.Alternative)
	if alternative == "" {
		alternative = DefaultAlternative
	}

	updated := req.DataLastUpdated
	if updated == "" {
		updated = time.Now().UTC().Format(time.RFC3339)
	}

	return domain.ExplainablePayload{
		Recommendation:  strings.TrimSpace(req.Recommendation),
		TopReasons:      reasons,
		Confidence:      ConfidenceFor(score),
		ConfidenceScore: math.Round(score*100) / 100,
		Risks:           risks,
		Alternative:     alternative,
		DataLastUpdated: updated,
	}
}

// Validate checks the payload contract and reports every violation at once.
func Validate(p domain.ExplainablePayload) error {
	var problems []string
	if strings.TrimSpace(p.Recommendation) == "" {
		problems = append(problems, "recommendation cannot be empty")
	}
	if len(p.TopReasons) == 0 {
		problems = append(problems, "top_reasons must contain at least one reason")
	}
	if !p.Confidence.Valid() {
		problems = append(problems, "confidence must be one of: High, Medium, Low")
	}
	if strings.TrimSpace(p.Alternative) == "" {
		problems = append(problems, "alternative cannot be empty")
	}
	if strings.TrimSpace(p.DataLastUpdated) == "" {
		problems = append(problems, "data_last_updated is required")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// BuildAndValidate builds a payload and refuses to return one that fails validation.
func BuildAndValidate(req Request) (domain.ExplainablePayload, error) {
	p := Build(req)
	if err := Validate(p); err != nil {
		return domain.ExplainablePayload{}, err
	}
	return p, nil
}

// FromContext builds a validated payload from a recommendation and raw signals.
// extraRisks are appended after the signal-derived risks.
func FromContext(recommendation string, s Signals, alternative string, extraRisks ...string) (domain.ExplainablePayload, error) {
	return BuildAndValidate(Request{
		Recommendation: recommendation,
		Evidence:       FromSignals(s),
		Risks:          append(Risks(s), extraRisks...),
		Alternative:    alternative,
	})
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
