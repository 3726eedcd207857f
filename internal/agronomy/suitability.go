package agronomy

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/profiles"
)

// TopClasses is how many ranked classifier classes are considered.
const TopClasses = 3

// Suitability interprets ranked classifier output for a crop.
// The crop is checked through its nearest equivalence class, since the
// classifier only knows a closed vocabulary. The report names the crop
// the farmer asked about.
func Suitability(reg *profiles.Registry, crop string, soil domain.SoilReadings, classes []domain.SuitabilityClass) domain.SuitabilityReport {
	name := profiles.Normalize(crop)
	mapped := reg.NearestEquivalent(crop)

	top := append([]domain.SuitabilityClass(nil), classes...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Probability > top[j].Probability })
	if len(top) > TopClasses {
		top = top[:TopClasses]
	}

	report := domain.SuitabilityReport{
		Crop:          name,
		ModelCropUsed: mapped,
		TopClasses:    top,
	}
	if len(top) == 0 {
		report.Reason = fmt.Sprintf("No suitability prediction available for %s.", name)
		return report
	}
	report.RecommendedCrop = profiles.Normalize(string(top[0].Class))

	match := -1
	for i, c := range top {
		if strings.EqualFold(string(c.Class), string(mapped)) {
			match = i
			break
		}
	}

	if match >= 0 {
		report.IsSuitable = true
		report.Confidence = round1(top[match].Probability * 100)
		report.SuitabilityScore = min(100, int(report.Confidence*1.1))
	} else {
		report.Confidence = round1(top[0].Probability * 100)
		report.SuitabilityScore = max(10, int(report.Confidence*0.25))
	}

	switch {
	case report.IsSuitable && report.Confidence > 60:
		report.Reason = fmt.Sprintf("Soil conditions are well suited for %s. pH %s, Moisture %s%%, match %s requirements.",
			name, num(soil.PH), num(soil.Moisture), name)
	case report.IsSuitable:
		report.Reason = fmt.Sprintf("Marginally suitable for %s. Consider adjusting fertilizer for better yield.", name)
	default:
		report.Reason = fmt.Sprintf("Conditions better suited for %s than %s. pH %s and EC %s may limit %s yield.",
			report.RecommendedCrop, name, num(soil.PH), num(soil.SoilEC), name)
	}
	return report
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
