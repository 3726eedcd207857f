package market

import (
	"time"

	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/profiles"
)

// PriceUnit is the unit every price estimate is quoted in.
const PriceUnit = "₹ per quintal"

// Season maps a month to the agricultural season used by the price model.
func Season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "summer"
	case time.June, time.July, time.August, time.September:
		return "monsoon"
	default:
		return "post_monsoon"
	}
}

// Envelope wraps a point price in the standard ±10% band.
// Negative prices are floored at zero.
func Envelope(q domain.PriceQuery, price float64) domain.PriceEstimate {
	if price < 0 {
		price = 0
	}
	price = round2(price)
	date := q.Date
	if date.IsZero() {
		date = time.Now()
	}
	return domain.PriceEstimate{
		Commodity:      profiles.Normalize(q.Commodity),
		Market:         profiles.Normalize(q.Market),
		State:          profiles.Normalize(q.State),
		Date:           date.Format("2006-01-02"),
		PredictedPrice: price,
		ConfidenceRange: domain.PriceRange{
			Low:  round2(price * 0.90),
			High: round2(price * 1.10),
		},
		Unit:   PriceUnit,
		Season: Season(date.Month()),
	}
}
