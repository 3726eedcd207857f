package domain

// EvidenceSource tags where a piece of evidence came from.
type EvidenceSource string

const (
	SourceWeather  EvidenceSource = "weather"
	SourcePrice    EvidenceSource = "price"
	SourceSoil     EvidenceSource = "soil"
	SourceSpoilage EvidenceSource = "spoilage"
)

// Label returns the farmer-facing name of the source.
func (s EvidenceSource) Label() string {
	switch s {
	case SourceWeather:
		return "Weather"
	case SourcePrice:
		return "Mandi price trend"
	case SourceSoil:
		return "Soil health"
	case SourceSpoilage:
		return "Storage and transit risk"
	default:
		return "Signal"
	}
}

// EvidenceItem is one signal contributing to a recommendation.
type EvidenceItem struct {
	Source EvidenceSource `json:"source"`
	Impact float64        `json:"impact"` // 0..1
	Reason string         `json:"reason"`

	// Metric and Value render the reason line when Reason is empty.
	Metric string `json:"metric,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Confidence is the closed label set for explanation confidence.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Valid reports whether c is one of the closed labels.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// ExplainablePayload is the farmer-facing justification of a recommendation.
// It is only ever served after passing validation.
type ExplainablePayload struct {
	Recommendation  string     `json:"recommendation"`
	TopReasons      []string   `json:"top_reasons"`
	Confidence      Confidence `json:"confidence"`
	ConfidenceScore float64    `json:"confidence_score"`
	Risks           []string   `json:"risks"`
	Alternative     string     `json:"alternative"`
	DataLastUpdated string     `json:"data_last_updated"`
}
