// Package bypass scores whether selling directly, skipping the commission
// agent, is worth it for a lot.
package bypass

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agrichain/agrichain/internal/domain"
)

// MaxScore is the top of the bypass scale.
const MaxScore = 10

// DefaultCommissionRate is the reference intermediary commission.
const DefaultCommissionRate = 0.08

// Engine computes bypass assessments. It holds only read-only policy and is
// safe for concurrent use.
type Engine struct {
	rate    float64
	regions map[string]struct{}
}

// NewEngine creates a bypass engine from scoring policy. Zero values fall
// back to the 8% commission and the default network regions.
func NewEngine(cfg domain.ScoringConfig) *Engine {
	rate := cfg.CommissionRate
	if rate <= 0 {
		rate = DefaultCommissionRate
	}
	list := cfg.NetworkRegions
	if len(list) == 0 {
		list = domain.DefaultNetworkRegions
	}
	regions := make(map[string]struct{}, len(list))
	for _, r := range list {
		regions[normalizeRegion(r)] = struct{}{}
	}
	return &Engine{rate: rate, regions: regions}
}

// Score computes the additive bypass score for one lot.
func (e *Engine) Score(in domain.BypassInput) domain.BypassAssessment {
	quantity := math.Max(0, in.Quantity)
	price := math.Max(0, in.Price)

	score := 0
	reasons := make([]domain.ScoreReason, 0, 4)
	add := func(points int, positive bool, text string) {
		score += points
		reasons = append(reasons, domain.ScoreReason{Positive: positive, Text: text})
	}

	// Quantity tier
	qty := formatQty(quantity)
	switch {
	case quantity >= 20:
		add(3, true, fmt.Sprintf("Your %s qtl meets direct buyer minimum (20 qtl)", qty))
	case quantity >= 10:
		add(2, true, fmt.Sprintf("Your %s qtl qualifies for most direct buyers (min 10 qtl)", qty))
	case quantity >= 5:
		add(1, true, fmt.Sprintf("%s qtl may qualify for some direct buyers", qty))
	default:
		add(0, false, fmt.Sprintf("Only %s qtl, too small for direct deals (need 10+ qtl)", qty))
	}

	// Trend
	ratePct := e.rate * 100
	switch in.Trend {
	case domain.TrendRising:
		add(2, true, "Rising prices strengthen your negotiating position")
	case domain.TrendFalling:
		add(1, true, fmt.Sprintf("Falling prices mean the broker's %s%% cut hurts more, so bypass saves more now", formatQty(ratePct)))
	default:
		add(1, true, "Stable prices make direct deal planning straightforward")
	}

	// Commission saved
	saved := math.Round(quantity * price * e.rate)
	switch {
	case saved > 5000:
		add(3, true, fmt.Sprintf("Savings of ₹%s by skipping %s%% broker commission", formatRupees(saved), formatQty(ratePct)))
	case saved > 2000:
		add(2, true, fmt.Sprintf("Savings of ₹%s by skipping broker commission", formatRupees(saved)))
	default:
		add(1, true, fmt.Sprintf("Savings of ₹%s by going direct", formatRupees(saved)))
	}

	// Region network
	region := strings.TrimSpace(in.Region)
	if e.HasNetwork(region) {
		add(2, true, fmt.Sprintf("%s has established FPO/direct agri-buyer networks", region))
	} else {
		add(0, false, "Direct buyer network less developed in this state")
	}

	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}

	verdict, next := verdictFor(score, region)
	return domain.BypassAssessment{
		Crop:              in.Crop,
		Region:            region,
		Score:             score,
		MaxScore:          MaxScore,
		Verdict:           verdict,
		Reasons:           reasons,
		CommissionSaved:   saved,
		CommissionRatePct: ratePct,
		NextStep:          next,
	}
}

// HasNetwork reports whether region has an established direct-buyer network.
func (e *Engine) HasNetwork(region string) bool {
	_, ok := e.regions[normalizeRegion(region)]
	return ok
}

func verdictFor(score int, region string) (domain.BypassVerdict, string) {
	switch {
	case score >= 8:
		return domain.VerdictHighlyRecommended,
			"Contact your nearest FPO (Farmer Producer Organisation) or APMC direct procurement desk"
	case score >= 5:
		return domain.VerdictWorthTrying,
			fmt.Sprintf("Search 'FPO %s' or call Kisan Call Centre 1800-180-1551 for direct buyer referrals", region)
	default:
		return domain.VerdictBuildQuantityFirst,
			"Combine with 2-3 neighbouring farmers to reach 10+ qtl, then try direct selling"
	}
}

func normalizeRegion(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatRupees renders a whole amount with thousands separators.
func formatRupees(v float64) string {
	digits := strconv.FormatInt(int64(math.Round(v)), 10)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
