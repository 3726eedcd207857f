package domain

import "time"

// ArrivalRecord is one historical market arrival observation.
type ArrivalRecord struct {
	Commodity   string    `json:"commodity"`
	State       string    `json:"state"`
	District    string    `json:"district,omitempty"`
	Market      string    `json:"market"`
	ArrivalDate time.Time `json:"arrival_date"`
	ModalPrice  float64   `json:"modal_price"` // per quintal
}

// WeeklyArrivals aggregates arrivals for one ISO week-of-year across years.
type WeeklyArrivals struct {
	Week     int     `json:"week"`
	Count    int     `json:"arrival_count"`
	AvgPrice float64 `json:"avg_price"`
}

// SurgeAdvice is the surge detector's selling guidance.
type SurgeAdvice string

const (
	AdviceNoData          SurgeAdvice = "NoData"
	AdviceSellNowOrDelay  SurgeAdvice = "SellNowOrDelay"
	AdviceSellBeforeSurge SurgeAdvice = "SellBeforeSurge"
	AdviceGoodWindow      SurgeAdvice = "GoodWindow"
)

// SurgeWeek is a week whose arrival volume crosses the surge threshold.
type SurgeWeek struct {
	Week           int     `json:"week"`
	WeeksFromNow   int     `json:"weeks_from_now"`
	ArrivalIndex   float64 `json:"arrival_index"`
	AvgPrice       float64 `json:"avg_price"`
	PriceImpactPct float64 `json:"price_impact_pct"`
}

// SurgeForecast is the surge detector's output.
type SurgeForecast struct {
	Commodity        string      `json:"commodity"`
	State            string      `json:"state"`
	HasPrediction    bool        `json:"has_prediction"`
	CurrentWeek      int         `json:"current_week"`
	NormalAvgPrice   float64     `json:"normal_avg_price"`
	UpcomingSurges   []SurgeWeek `json:"upcoming_surges"`
	HistoricalSurges []SurgeWeek `json:"historical_surges"`
	BestPriceWeeks   []int       `json:"best_price_weeks"`
	Advice           SurgeAdvice `json:"advice"`
	Alert            string      `json:"alert"`
}
