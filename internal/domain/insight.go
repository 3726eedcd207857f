package domain

import "time"

// InsightRequest is everything a farmer supplies for a full recommendation.
// Optional measurements left nil are fetched from external collaborators.
type InsightRequest struct {
	Crop        string `json:"crop"`
	Variety     string `json:"variety,omitempty"`
	Grade       string `json:"grade,omitempty"`
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	HarvestDate string `json:"harvest_date,omitempty"` // YYYY-MM-DD

	Quantity float64      `json:"quantity_quintals"`
	Storage  StorageClass `json:"storage_type,omitempty"`

	Soil *SoilReadings `json:"soil,omitempty"`

	// Caller-supplied substitutes for external values
	TransitHours   *float64 `json:"transit_hours,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	Humidity       *float64 `json:"humidity,omitempty"`
	PredictedPrice *float64 `json:"predicted_price,omitempty"`

	// Destination for routing; defaults to Market
	Destination string `json:"destination,omitempty"`

	Alternative string `json:"alternative,omitempty"`
}

// Insight is a fully composed, validated recommendation.
type Insight struct {
	ID        string    `json:"id"`
	Crop      string    `json:"crop"`
	State     string    `json:"state"`
	District  string    `json:"district"`
	Timestamp time.Time `json:"timestamp"`

	Explanation ExplainablePayload `json:"explanation"`

	Spoilage      SpoilageAssessment  `json:"spoilage"`
	Bypass        BypassAssessment    `json:"bypass"`
	Surge         SurgeForecast       `json:"surge"`
	Trend         TrendReport         `json:"price_trend"`
	BestMarkets   MarketRanking       `json:"best_markets"`
	Micronutrient MicronutrientReport `json:"micronutrient"`
	Suitability   *SuitabilityReport  `json:"crop_suitability,omitempty"`
	Advisories    []AdvisoryResult    `json:"advisories,omitempty"`

	Weather   Sourced[WeatherReading]  `json:"weather"`
	Outlook   Sourced[WeatherOutlook]  `json:"forecast"`
	Price     Sourced[PriceEstimate]   `json:"price_prediction"`
	Transit   Sourced[TransitEstimate] `json:"transit"`
	Narration Provenance               `json:"recommendation_provenance"`

	Metadata InsightMetadata `json:"metadata"`
}

// InsightMetadata contains processing information.
type InsightMetadata struct {
	TraceID        string `json:"trace_id"`
	GatherMs       int64  `json:"gather_ms"`
	ScoreMs        int64  `json:"score_ms"`
	ExplainMs      int64  `json:"explain_ms"`
	TotalMs        int64  `json:"total_ms"`
	RulesEvaluated int    `json:"rules_evaluated"`
	EngineVersion  string `json:"engine_version"`
}
