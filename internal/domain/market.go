package domain

// MonthlyPrice is an average modal price for one calendar month.
type MonthlyPrice struct {
	Month      string  `json:"month"` // YYYY-MM
	ModalPrice float64 `json:"modal_price"`
}

// TrendReport describes recent price direction for a crop in a state.
type TrendReport struct {
	Commodity     string         `json:"commodity"`
	State         string         `json:"state"`
	Trend         PriceTrend     `json:"trend"`
	ChangePct     float64        `json:"change_pct"`
	Summary       string         `json:"summary"`
	MonthlyPrices []MonthlyPrice `json:"monthly_prices"`
}

// MarketPrice is a market's average price over the ranking window.
type MarketPrice struct {
	Market     string  `json:"market"`
	AvgPrice   float64 `json:"avg_price"`
	DataPoints int     `json:"data_points"`
}

// MarketRanking lists the best-paying markets for a crop in a state.
type MarketRanking struct {
	Commodity  string        `json:"commodity"`
	State      string        `json:"state"`
	BestMarket string        `json:"best_market"`
	BestPrice  float64       `json:"best_price"`
	Markets    []MarketPrice `json:"markets"`
	Summary    string        `json:"summary"`
}
