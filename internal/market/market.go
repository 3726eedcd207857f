// Package market derives price trends and market rankings from arrival history.
package market

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/profiles"
)

const (
	// MinRows is the history needed before trends or rankings are computed.
	MinRows = 10

	// TrendWindowMonths is how far back from the latest observation the trend looks.
	TrendWindowMonths = 6

	// RankingWindowMonths is how far back market rankings look.
	RankingWindowMonths = 12

	// MinMarketPoints is the minimum observations for a market to be ranked.
	MinMarketPoints = 5

	// TopMarkets is the number of markets returned by BestMarkets.
	TopMarkets = 3

	// TrendThresholdPct separates rising and falling from stable.
	TrendThresholdPct = 5.0
)

// Trend compares the first and last monthly average over the recent window.
func Trend(commodity, state string, records []domain.ArrivalRecord) domain.TrendReport {
	commodity = profiles.Normalize(commodity)
	state = profiles.Normalize(state)

	report := domain.TrendReport{
		Commodity:     commodity,
		State:         state,
		MonthlyPrices: []domain.MonthlyPrice{},
	}

	if len(records) < MinRows {
		report.Trend = domain.TrendUnknown
		report.Summary = fmt.Sprintf("Not enough data for %s in %s", commodity, state)
		return report
	}

	cutoff := latest(records).AddDate(0, -TrendWindowMonths, 0)

	type acc struct {
		sum   float64
		count int
	}
	byMonth := make(map[string]*acc)
	for _, r := range records {
		if r.ArrivalDate.Before(cutoff) {
			continue
		}
		month := r.ArrivalDate.Format("2006-01")
		a, ok := byMonth[month]
		if !ok {
			a = &acc{}
			byMonth[month] = a
		}
		a.sum += r.ModalPrice
		a.count++
	}

	for month, a := range byMonth {
		report.MonthlyPrices = append(report.MonthlyPrices, domain.MonthlyPrice{
			Month:      month,
			ModalPrice: round2(a.sum / float64(a.count)),
		})
	}
	sort.Slice(report.MonthlyPrices, func(i, j int) bool {
		return report.MonthlyPrices[i].Month < report.MonthlyPrices[j].Month
	})

	if len(report.MonthlyPrices) < 2 {
		report.Trend = domain.TrendStable
		report.Summary = "Insufficient monthly data for trend"
		return report
	}

	first := report.MonthlyPrices[0].ModalPrice
	last := report.MonthlyPrices[len(report.MonthlyPrices)-1].ModalPrice
	if first > 0 {
		report.ChangePct = round2((last - first) / first * 100)
	}

	pct := strconv.FormatFloat(report.ChangePct, 'f', -1, 64)
	switch {
	case report.ChangePct > TrendThresholdPct:
		report.Trend = domain.TrendRising
		report.Summary = fmt.Sprintf("%s prices in %s are rising (+%s%% over last 6 months). Good time to sell soon.", commodity, state, pct)
	case report.ChangePct < -TrendThresholdPct:
		report.Trend = domain.TrendFalling
		report.Summary = fmt.Sprintf("%s prices in %s are falling (%s%% over last 6 months). Consider selling immediately.", commodity, state, pct)
	default:
		report.Trend = domain.TrendStable
		report.Summary = fmt.Sprintf("%s prices in %s are stable (%s%% change). Normal market conditions.", commodity, state, pct)
	}
	return report
}

// BestMarkets ranks markets by average price over the last year of data.
// Ties keep alphabetical market order.
func BestMarkets(commodity, state string, records []domain.ArrivalRecord) domain.MarketRanking {
	commodity = profiles.Normalize(commodity)
	state = profiles.Normalize(state)

	ranking := domain.MarketRanking{
		Commodity:  commodity,
		State:      state,
		BestMarket: "Unknown",
		Markets:    []domain.MarketPrice{},
	}

	if len(records) < MinRows {
		ranking.Summary = fmt.Sprintf("Not enough data for %s in %s", commodity, state)
		return ranking
	}

	cutoff := latest(records).AddDate(0, -RankingWindowMonths, 0)

	type acc struct {
		sum   float64
		count int
	}
	byMarket := make(map[string]*acc)
	for _, r := range records {
		if r.ArrivalDate.Before(cutoff) {
			continue
		}
		name := profiles.Normalize(r.Market)
		a, ok := byMarket[name]
		if !ok {
			a = &acc{}
			byMarket[name] = a
		}
		a.sum += r.ModalPrice
		a.count++
	}

	candidates := make([]domain.MarketPrice, 0, len(byMarket))
	for name, a := range byMarket {
		if a.count < MinMarketPoints {
			continue
		}
		candidates = append(candidates, domain.MarketPrice{
			Market:     name,
			AvgPrice:   a.sum / float64(a.count),
			DataPoints: a.count,
		})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Market < candidates[j].Market })
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].AvgPrice > candidates[j].AvgPrice })

	for i := 0; i < len(candidates) && i < TopMarkets; i++ {
		m := candidates[i]
		m.AvgPrice = round2(m.AvgPrice)
		ranking.Markets = append(ranking.Markets, m)
	}
	if len(ranking.Markets) > 0 {
		ranking.BestMarket = ranking.Markets[0].Market
		ranking.BestPrice = ranking.Markets[0].AvgPrice
	}

	ranking.Summary = fmt.Sprintf("Best market for %s in %s is %s with avg price ₹%s/quintal",
		commodity, state, ranking.BestMarket, strconv.FormatFloat(ranking.BestPrice, 'f', -1, 64))
	return ranking
}

func latest(records []domain.ArrivalRecord) time.Time {
	var newest time.Time
	for _, r := range records {
		if r.ArrivalDate.After(newest) {
			newest = r.ArrivalDate
		}
	}
	return newest
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
