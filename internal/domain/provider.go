package domain

import (
	"context"
	"time"
)

// Provenance records whether a value was measured or substituted.
type Provenance string

const (
	// ProvenanceLive is a value returned by the external collaborator.
	ProvenanceLive Provenance = "live"

	// ProvenanceDefault is a caller-supplied or configured default.
	ProvenanceDefault Provenance = "default"

	// ProvenanceFallback is a substitute computed after a collaborator failed.
	ProvenanceFallback Provenance = "fallback"
)

// Sourced wraps an externally supplied value with its provenance.
type Sourced[T any] struct {
	Value      T          `json:"value"`
	Provenance Provenance `json:"provenance"`
	Error      string     `json:"error,omitempty"`
}

// Live tags v as measured.
func Live[T any](v T) Sourced[T] {
	return Sourced[T]{Value: v, Provenance: ProvenanceLive}
}

// Default tags v as a configured or caller-supplied default.
func Default[T any](v T) Sourced[T] {
	return Sourced[T]{Value: v, Provenance: ProvenanceDefault}
}

// Fallback tags v as a substitute for a failed call.
func Fallback[T any](v T, err error) Sourced[T] {
	s := Sourced[T]{Value: v, Provenance: ProvenanceFallback}
	if err != nil {
		s.Error = err.Error()
	}
	return s
}

// WeatherReading is the interpreted current weather at a location.
type WeatherReading struct {
	City           string   `json:"city"`
	State          string   `json:"state"`
	Temperature    float64  `json:"temperature"` // °C
	Humidity       float64  `json:"humidity"`    // % RH
	Rainfall       float64  `json:"rainfall"`    // mm in last hour
	WindSpeed      float64  `json:"wind_speed"`  // m/s
	Description    string   `json:"description"`
	HarvestRisk    RiskTier `json:"harvest_risk"`
	TransitRisk    RiskTier `json:"transit_risk"`
	SpoilageFactor float64  `json:"spoilage_factor"`
	Summary        string   `json:"weather_summary"`
	Issues         []string `json:"issues"`
	Source         string   `json:"source"`
}

// ForecastDay is one day of an interpreted multi-day forecast.
type ForecastDay struct {
	Date        string   `json:"date"` // YYYY-MM-DD
	Temperature float64  `json:"temperature"`
	Humidity    float64  `json:"humidity"`
	Rainfall    float64  `json:"rainfall"`
	HarvestRisk RiskTier `json:"harvest_risk"`
	TransitRisk RiskTier `json:"transit_risk"`
	Summary     string   `json:"summary"`
}

// WeatherOutlook is a short forecast with the lowest-risk day picked out.
type WeatherOutlook struct {
	City        string        `json:"city"`
	State       string        `json:"state"`
	Days        []ForecastDay `json:"forecast"`
	BestDay     string        `json:"best_day"`
	BestDayRisk RiskTier      `json:"best_day_risk"`
	Summary     string        `json:"summary"`
	Source      string        `json:"source"`
}

// PriceQuery identifies the lot a price estimate is wanted for.
type PriceQuery struct {
	State     string    `json:"state"`
	District  string    `json:"district"`
	Market    string    `json:"market"`
	Commodity string    `json:"commodity"`
	Variety   string    `json:"variety"`
	Grade     string    `json:"grade"`
	Date      time.Time `json:"date"`
}

// PriceRange is a confidence band around a point estimate.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// PriceEstimate is a point estimate from the price model.
type PriceEstimate struct {
	Commodity       string     `json:"commodity"`
	Market          string     `json:"market"`
	State           string     `json:"state"`
	Date            string     `json:"date"`
	PredictedPrice  float64    `json:"predicted_price"`
	ConfidenceRange PriceRange `json:"confidence_range"`
	Unit            string     `json:"unit"`
	Season          string     `json:"season"`
}

// SoilReadings are the field measurements fed to the suitability model.
type SoilReadings struct {
	PH          float64 `json:"ph"`
	SoilEC      float64 `json:"soil_ec"`
	Phosphorus  float64 `json:"phosphorus"`
	Potassium   float64 `json:"potassium"`
	Urea        float64 `json:"urea"`
	TSP         float64 `json:"tsp"`
	MOP         float64 `json:"mop"`
	Moisture    float64 `json:"moisture"`
	Temperature float64 `json:"temperature"`
}

// SuitabilityClass is one ranked class from the suitability model.
type SuitabilityClass struct {
	Class       EquivalenceClass `json:"class"`
	Probability float64          `json:"probability"` // 0..1
}

// TransitEstimate is a routed travel time between two points.
type TransitEstimate struct {
	Hours      float64 `json:"transit_hours"`
	DistanceKm float64 `json:"distance_km"`
}

// WeatherProvider fetches current weather for a location.
type WeatherProvider interface {
	Current(ctx context.Context, city, state string) (*WeatherReading, error)
}

// OutlookProvider fetches a multi-day forecast for a location.
type OutlookProvider interface {
	Outlook(ctx context.Context, city, state string, days int) (*WeatherOutlook, error)
}

// PriceModel produces a price point estimate.
type PriceModel interface {
	PredictPrice(ctx context.Context, q PriceQuery) (*PriceEstimate, error)
}

// SuitabilityModel ranks classifier classes for the given soil.
type SuitabilityModel interface {
	RankClasses(ctx context.Context, soil SoilReadings) ([]SuitabilityClass, error)
}

// RouteProvider estimates transit time between two places.
type RouteProvider interface {
	Transit(ctx context.Context, origin, destination string) (*TransitEstimate, error)
}

// Narrator turns a structured context into a plain-language recommendation.
type Narrator interface {
	Recommend(ctx context.Context, facts NarrationFacts) (string, error)
}

// NarrationFacts is the structured context handed to a Narrator.
type NarrationFacts struct {
	Crop                string   `json:"crop"`
	State               string   `json:"state"`
	District            string   `json:"district"`
	PredictedPrice      float64  `json:"predicted_price"`
	PriceTrend          string   `json:"price_trend"`
	BestMarket          string   `json:"best_market"`
	BestMarketPrice     float64  `json:"best_market_price"`
	HarvestWindow       string   `json:"harvest_window"`
	Weather             string   `json:"weather"`
	HarvestRisk         RiskTier `json:"harvest_risk"`
	SpoilageRisk        RiskTier `json:"spoilage_risk"`
	DaysSafe            int      `json:"days_safe"`
	PreservationActions []string `json:"preservation_actions"`
	SurgeAdvice         string   `json:"surge_advice"`
	BypassVerdict       string   `json:"bypass_verdict"`
	IsCropSuitable      bool     `json:"is_crop_suitable"`
	RecommendedCrop     string   `json:"recommended_crop"`
}
