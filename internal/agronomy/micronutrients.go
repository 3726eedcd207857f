// Package agronomy interprets soil data: district micronutrient deficiencies
// and suitability classifier output for a farmer's crop.
package agronomy

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/profiles"
)

const (
	// DeficiencyThreshold is the share of deficient farms that raises a warning.
	DeficiencyThreshold = 70.0

	// SevereDeficiency is the share at which a warning becomes High severity.
	SevereDeficiency = 85.0
)

type nutrient struct {
	code string
	name string
	fix  string
}

// nutrients is the report order before severity sorting.
var nutrients = []nutrient{
	{"Zn", "Zinc", "Apply Zinc Sulphate @ 25 kg/ha before sowing."},
	{"Fe", "Iron", "Apply Ferrous Sulphate @ 25 kg/ha or foliar spray."},
	{"Cu", "Copper", "Apply Copper Sulphate @ 5 kg/ha to soil."},
	{"Mn", "Manganese", "Apply Manganese Sulphate @ 10 kg/ha to soil."},
	{"B", "Boron", "Apply Borax @ 10 kg/ha before sowing."},
	{"S", "Sulphur", "Apply Gypsum @ 200-400 kg/ha to soil."},
}

type districtSurvey struct {
	district string
	pct      [6]float64 // Zn, Fe, Cu, Mn, B, S
}

// surveys holds the share of farms deficient in each micronutrient.
var surveys = []districtSurvey{
	{"Anantapur", [6]float64{67.67, 65.14, 91.88, 77.70, 73.54, 85.90}},
	{"Chittoor", [6]float64{80.51, 78.19, 99.77, 91.82, 89.04, 88.62}},
	{"East Godavari", [6]float64{79.27, 88.14, 95.54, 97.24, 88.05, 95.67}},
	{"Guntur", [6]float64{58.30, 71.16, 98.86, 91.40, 86.15, 86.81}},
	{"Krishna", [6]float64{78.62, 82.02, 98.05, 95.23, 65.78, 98.56}},
	{"Kurnool", [6]float64{60.70, 48.45, 97.47, 91.34, 92.75, 96.05}},
	{"Prakasam", [6]float64{40.66, 59.14, 94.65, 82.17, 73.99, 69.54}},
	{"Nellore", [6]float64{39.58, 55.37, 80.72, 79.83, 77.23, 87.61}},
	{"Srikakulam", [6]float64{81.05, 75.77, 98.85, 91.31, 96.76, 94.45}},
	{"Visakhapatnam", [6]float64{58.75, 64.93, 96.44, 78.35, 85.40, 88.29}},
	{"Vizianagaram", [6]float64{61.60, 93.71, 95.22, 98.34, 79.43, 87.59}},
	{"West Godavari", [6]float64{67.36, 87.69, 96.54, 96.76, 87.74, 88.24}},
	{"Y.S.R.", [6]float64{68.61, 67.42, 92.82, 92.72, 71.80, 86.46}},
}

// Districts lists the surveyed districts in table order.
func Districts() []string {
	out := make([]string, len(surveys))
	for i, s := range surveys {
		out[i] = s.district
	}
	return out
}

// findSurvey matches the district exactly after normalization, then by substring.
func findSurvey(district string) (districtSurvey, bool) {
	name := profiles.Normalize(district)
	if name == "" {
		return districtSurvey{}, false
	}
	for _, s := range surveys {
		if s.district == name {
			return s, true
		}
	}
	lower := strings.ToLower(name)
	for _, s := range surveys {
		if strings.Contains(strings.ToLower(s.district), lower) {
			return s, true
		}
	}
	return districtSurvey{}, false
}

// Micronutrients reports the district's deficiencies at or above the threshold,
// most severe first. An unknown district is reported as unavailable.
func Micronutrients(district string) domain.MicronutrientReport {
	survey, ok := findSurvey(district)
	if !ok {
		name := profiles.Normalize(district)
		return domain.MicronutrientReport{
			District: name,
			Warnings: []domain.NutrientWarning{},
			Summary:  fmt.Sprintf("No micronutrient data for %s.", name),
		}
	}

	warnings := []domain.NutrientWarning{}
	for i, n := range nutrients {
		pct := survey.pct[i]
		if pct < DeficiencyThreshold {
			continue
		}
		severity := domain.TierMedium
		if pct >= SevereDeficiency {
			severity = domain.TierHigh
		}
		warnings = append(warnings, domain.NutrientWarning{
			Nutrient:      n.name,
			DeficiencyPct: pct,
			Severity:      severity,
			Fix:           n.fix,
		})
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Severity.Rank() != warnings[j].Severity.Rank() {
			return warnings[i].Severity.Rank() > warnings[j].Severity.Rank()
		}
		return warnings[i].DeficiencyPct > warnings[j].DeficiencyPct
	})

	summary := fmt.Sprintf("No critical micronutrient deficiencies in %s.", survey.district)
	if len(warnings) > 0 {
		top := warnings[0]
		summary = fmt.Sprintf("%d micronutrient deficiencies in %s. Most critical: %s (%s%% farms deficient).",
			len(warnings), survey.district, top.Nutrient, strconv.FormatFloat(top.DeficiencyPct, 'f', -1, 64))
	}

	return domain.MicronutrientReport{
		District:  survey.district,
		Warnings:  warnings,
		Summary:   summary,
		Available: true,
	}
}
