package spoilage

import (
	"fmt"

	"github.com/agrichain/agrichain/internal/domain"
)

// Actions runs the mitigation cascade. Every rule is checked independently
// and appends in a fixed order; nothing is ever removed.
func Actions(crop string, tier domain.RiskTier, storage domain.StorageClass, temperature, humidity float64, daysSafe int) []domain.MitigationAction {
	actions := []domain.MitigationAction{{
		Label:       "Sort and remove damaged produce",
		Cost:        domain.CostFree,
		CostText:    "Free",
		Impact:      domain.ImpactHigh,
		Description: "Remove bruised/damaged items immediately to prevent spread.",
	}}

	if temperature > 30 {
		actions = append(actions, domain.MitigationAction{
			Label:       "Move to shaded area",
			Cost:        domain.CostFree,
			CostText:    "Free",
			Impact:      domain.ImpactMedium,
			Description: "Shade reduces temperature by 5-8°C.",
		})
	}

	if humidity > 75 {
		actions = append(actions, domain.MitigationAction{
			Label:       "Improve ventilation",
			Cost:        domain.CostFree,
			CostText:    "Free",
			Impact:      domain.ImpactMedium,
			Description: "Open vents to reduce humidity buildup.",
		})
	}

	if storage == domain.StorageOpenAir || storage == domain.StorageBasicShed {
		actions = append(actions, domain.MitigationAction{
			Label:       "Use gunny/jute sacks",
			Cost:        domain.CostLow,
			CostText:    "₹5-10 per bag",
			Impact:      domain.ImpactMedium,
			Description: "Natural fiber bags allow breathability.",
		})
	}

	if tier == domain.TierMedium || tier == domain.TierHigh {
		actions = append(actions,
			domain.MitigationAction{
				Label:       "Evaporative cooling (wet cloth/clay pot)",
				Cost:        domain.CostLow,
				CostText:    "₹50-100",
				Impact:      domain.ImpactHigh,
				Description: "Reduces temperature by 10-15°C.",
			},
			domain.MitigationAction{
				Label:       "Move to cool storage facility",
				Cost:        domain.CostModerate,
				CostText:    "₹200-500",
				Impact:      domain.ImpactVeryHigh,
				Description: fmt.Sprintf("Extends %s shelf life by %d days.", crop, daysSafe*3),
			},
		)
	}

	if tier == domain.TierHigh {
		actions = append(actions, domain.MitigationAction{
			Label:       "Sell immediately at nearest market",
			Cost:        domain.CostTransportOnly,
			CostText:    "Transport cost only",
			Impact:      domain.ImpactVeryHigh,
			Description: "High risk: immediate sale prevents total loss.",
		})
	}

	return actions
}
