package domain

// PriceTrend is the recent direction of market prices.
type PriceTrend string

const (
	TrendRising  PriceTrend = "rising"
	TrendFalling PriceTrend = "falling"
	TrendStable  PriceTrend = "stable"
	TrendUnknown PriceTrend = "unknown"
)

// BypassVerdict says whether selling direct is worth the effort.
type BypassVerdict string

const (
	VerdictBuildQuantityFirst BypassVerdict = "BuildQuantityFirst"
	VerdictWorthTrying        BypassVerdict = "WorthTrying"
	VerdictHighlyRecommended  BypassVerdict = "HighlyRecommended"
)

// BypassInput holds the economics of a single lot.
type BypassInput struct {
	Crop     string     `json:"crop"`
	Region   string     `json:"state"`
	Quantity float64    `json:"quantity_quintals"`
	Price    float64    `json:"predicted_price"` // per quintal
	Trend    PriceTrend `json:"price_trend"`
}

// ScoreReason explains one additive term of the bypass score.
type ScoreReason struct {
	Positive bool   `json:"positive"`
	Text     string `json:"text"`
}

// BypassAssessment is the bypass engine's verdict.
type BypassAssessment struct {
	Crop              string        `json:"crop"`
	Region            string        `json:"state"`
	Score             int           `json:"score"`
	MaxScore          int           `json:"max_score"`
	Verdict           BypassVerdict `json:"verdict"`
	Reasons           []ScoreReason `json:"reasons"`
	CommissionSaved   float64       `json:"commission_saved"`
	CommissionRatePct float64       `json:"commission_rate_pct"`
	NextStep          string        `json:"next_step"`
}
