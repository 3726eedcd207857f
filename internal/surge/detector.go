// Package surge detects historically oversupplied market weeks.
package surge

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/profiles"
)

const (
	// MinObservations is the history needed before a forecast is made.
	MinObservations = 50

	// ThresholdFactor scales mean weekly volume into the surge threshold.
	ThresholdFactor = 1.5

	// Lookahead is the number of weeks after the current one that are checked.
	Lookahead = 4

	historicalLimit = 5
	bestWeeksLimit  = 3
	weeksPerCycle   = 52
)

// Aggregate groups arrival observations by ISO week-of-year, pooling years.
// Weeks are returned in ascending order.
func Aggregate(records []domain.ArrivalRecord) []domain.WeeklyArrivals {
	type acc struct {
		count int
		sum   float64
	}
	byWeek := make(map[int]*acc)
	for _, r := range records {
		_, week := r.ArrivalDate.ISOWeek()
		a, ok := byWeek[week]
		if !ok {
			a = &acc{}
			byWeek[week] = a
		}
		a.count++
		a.sum += r.ModalPrice
	}

	weekly := make([]domain.WeeklyArrivals, 0, len(byWeek))
	for week, a := range byWeek {
		weekly = append(weekly, domain.WeeklyArrivals{
			Week:     week,
			Count:    a.count,
			AvgPrice: a.sum / float64(a.count),
		})
	}
	sort.Slice(weekly, func(i, j int) bool { return weekly[i].Week < weekly[j].Week })
	return weekly
}

// History is the week-of-year aggregate of one commodity and state. It does
// not depend on the forecast week, so it can be cached per pair.
type History struct {
	Rows   int                     `json:"rows"`
	Weekly []domain.WeeklyArrivals `json:"weekly"`
}

// NewHistory aggregates raw observations.
func NewHistory(records []domain.ArrivalRecord) History {
	return History{Rows: len(records), Weekly: Aggregate(records)}
}

// Detect forecasts arrival surges for the weeks starting at target.
// A zero target means now. Too little history yields NoData, not an error.
func Detect(commodity, state string, records []domain.ArrivalRecord, target time.Time) domain.SurgeForecast {
	return NewHistory(records).Forecast(commodity, state, target)
}

// Forecast runs the detector over the aggregated history.
func (h History) Forecast(commodity, state string, target time.Time) domain.SurgeForecast {
	commodity = profiles.Normalize(commodity)
	state = profiles.Normalize(state)
	if target.IsZero() {
		target = time.Now()
	}

	fc := domain.SurgeForecast{
		Commodity:        commodity,
		State:            state,
		UpcomingSurges:   []domain.SurgeWeek{},
		HistoricalSurges: []domain.SurgeWeek{},
		BestPriceWeeks:   []int{},
	}

	if h.Rows < MinObservations || len(h.Weekly) == 0 {
		fc.Advice = domain.AdviceNoData
		fc.Alert = fmt.Sprintf("Not enough historical data for %s in %s", commodity, state)
		return fc
	}

	weekly := h.Weekly

	var volumeSum, priceSum float64
	for _, w := range weekly {
		volumeSum += float64(w.Count)
		priceSum += w.AvgPrice
	}
	meanVolume := volumeSum / float64(len(weekly))
	meanPrice := priceSum / float64(len(weekly))
	threshold := ThresholdFactor * meanVolume

	_, current := target.ISOWeek()
	fc.HasPrediction = true
	fc.CurrentWeek = current
	fc.NormalAvgPrice = math.Round(meanPrice)

	byWeek := make(map[int]domain.WeeklyArrivals, len(weekly))
	for _, w := range weekly {
		byWeek[w.Week] = w
	}

	toSurge := func(w domain.WeeklyArrivals, offset int) domain.SurgeWeek {
		return domain.SurgeWeek{
			Week:           w.Week,
			WeeksFromNow:   offset,
			ArrivalIndex:   round(float64(w.Count)/meanVolume, 2),
			AvgPrice:       math.Round(w.AvgPrice),
			PriceImpactPct: round(impactPct(w.AvgPrice, meanPrice), 1),
		}
	}

	for delta := 0; delta <= Lookahead; delta++ {
		week := ((current+delta-1)%weeksPerCycle + 1)
		w, ok := byWeek[week]
		if !ok || float64(w.Count) < threshold {
			continue
		}
		fc.UpcomingSurges = append(fc.UpcomingSurges, toSurge(w, delta))
	}

	// weekly is ordered by week, so stable sorts break ties by week ascending.
	surges := make([]domain.WeeklyArrivals, 0, len(weekly))
	for _, w := range weekly {
		if float64(w.Count) >= threshold {
			surges = append(surges, w)
		}
	}
	sort.SliceStable(surges, func(i, j int) bool { return surges[i].Count > surges[j].Count })
	for i := 0; i < len(surges) && i < historicalLimit; i++ {
		s := toSurge(surges[i], 0)
		s.WeeksFromNow = weeksUntil(current, surges[i].Week)
		fc.HistoricalSurges = append(fc.HistoricalSurges, s)
	}

	byPrice := append([]domain.WeeklyArrivals(nil), weekly...)
	sort.SliceStable(byPrice, func(i, j int) bool { return byPrice[i].AvgPrice > byPrice[j].AvgPrice })
	for i := 0; i < len(byPrice) && i < bestWeeksLimit; i++ {
		fc.BestPriceWeeks = append(fc.BestPriceWeeks, byPrice[i].Week)
	}

	fc.Advice, fc.Alert = advise(commodity, state, fc.UpcomingSurges)
	return fc
}

func advise(commodity, state string, upcoming []domain.SurgeWeek) (domain.SurgeAdvice, string) {
	if len(upcoming) == 0 {
		return domain.AdviceGoodWindow, fmt.Sprintf(
			"No arrival surge in the next %d weeks for %s in %s. You are in a safe selling window.",
			Lookahead, commodity, state)
	}

	next := upcoming[0]
	if next.WeeksFromNow == 0 {
		direction := "near"
		if next.PriceImpactPct < 0 {
			direction = "below"
		}
		return domain.AdviceSellNowOrDelay, fmt.Sprintf(
			"This week is historically a high-arrival surge week for %s in %s. Price is %.1f%% %s average. "+
				"Consider selling now before further drop or wait until the surge passes.",
			commodity, state, math.Abs(next.PriceImpactPct), direction)
	}

	direction := "normal"
	if next.PriceImpactPct < 0 {
		direction = "lower"
	}
	return domain.AdviceSellBeforeSurge, fmt.Sprintf(
		"Arrival surge expected in %d week(s) (week %d) for %s in %s. Prices historically %.1f%% %s then. "+
			"Sell before the surge for a better price.",
		next.WeeksFromNow, next.Week, commodity, state, math.Abs(next.PriceImpactPct), direction)
}

// weeksUntil counts forward from current to week on the 52-week cycle.
func weeksUntil(current, week int) int {
	d := (week - current) % weeksPerCycle
	if d < 0 {
		d += weeksPerCycle
	}
	return d
}

func impactPct(price, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	return (price - mean) / mean * 100
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
