// Package spoilage scores post-harvest spoilage risk.
package spoilage

import (
	"fmt"
	"math"
	"strings"

	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/profiles"
)

// Composite weights. They sum to 1.0 before the weather multiplier.
const (
	WeightStorage     = 0.35
	WeightTemperature = 0.25
	WeightHumidity    = 0.20
	WeightTransit     = 0.20
)

// Tier thresholds on the 0-100 score.
const (
	HighThreshold   = 65
	MediumThreshold = 35
)

// defaultStoragePenalty applies to unrecognised storage classes.
const defaultStoragePenalty = 0.6

var storagePenalties = map[domain.StorageClass]float64{
	domain.StorageOpenAir:     1.0,
	domain.StorageBasicShed:   0.6,
	domain.StorageCoolStorage: 0.3,
	domain.StorageColdStorage: 0.1,
}

// StoragePenalty returns the fixed penalty coefficient for a storage class.
func StoragePenalty(class domain.StorageClass) float64 {
	if p, ok := storagePenalties[normalizeStorage(class)]; ok {
		return p
	}
	return defaultStoragePenalty
}

// Storage returns display info for every storage class.
func Storage() []domain.StorageInfo {
	return []domain.StorageInfo{
		{Value: domain.StorageOpenAir, Label: "Open Air", Description: "No protection from weather", Risk: "High", Penalty: StoragePenalty(domain.StorageOpenAir)},
		{Value: domain.StorageBasicShed, Label: "Basic Shed", Description: "Simple covered storage", Risk: "Medium", Penalty: StoragePenalty(domain.StorageBasicShed)},
		{Value: domain.StorageCoolStorage, Label: "Cool Storage", Description: "Ventilated cool room", Risk: "Low", Penalty: StoragePenalty(domain.StorageCoolStorage)},
		{Value: domain.StorageColdStorage, Label: "Cold Storage", Description: "Temperature controlled facility", Risk: "Very Low", Penalty: StoragePenalty(domain.StorageColdStorage)},
	}
}

// Engine computes spoilage assessments against a profile registry.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	registry *profiles.Registry
}

// NewEngine creates a spoilage engine.
func NewEngine(registry *profiles.Registry) *Engine {
	return &Engine{registry: registry}
}

// Assess scores the spoilage risk of one lot.
func (e *Engine) Assess(in domain.SpoilageInput) domain.SpoilageAssessment {
	profile := e.registry.Lookup(in.Crop)
	pen := Penalties(profile, in)

	// Clamp before converting: a huge multiplier must not overflow int.
	score := int(math.Round(100 * clamp(pen.Raw, 0, 1)))

	shelf := float64(profile.ShelfLifeDays)
	daysSafe := int(math.Floor(shelf * math.Max(0.1, 1-pen.Raw)))
	if daysSafe < 1 {
		daysSafe = 1
	}

	tier := TierFor(score)
	storage := normalizeStorage(in.Storage)

	crop := profiles.Normalize(in.Crop)
	return domain.SpoilageAssessment{
		Crop:         crop,
		Storage:      storage,
		RiskScore:    score,
		RiskTier:     tier,
		DaysSafe:     daysSafe,
		Actions:      Actions(crop, tier, storage, in.Temperature, in.Humidity, daysSafe),
		Summary:      summary(tier, daysSafe),
		StorageTip:   profile.StorageTip,
		SpoilageNote: profile.SpoilageNotes,
		Penalties:    pen,
	}
}

// Penalties computes the individual penalty terms and the raw composite.
func Penalties(profile domain.CropProfile, in domain.SpoilageInput) domain.SpoilagePenalties {
	multiplier := in.Multiplier
	if !(multiplier > 0) {
		multiplier = 1.0
	}
	transit := math.Max(0, in.TransitHours)

	p := domain.SpoilagePenalties{
		Storage:     StoragePenalty(in.Storage),
		Temperature: clamp((in.Temperature-profile.IdealTemp)/20, 0, 1),
		Humidity:    clamp((in.Humidity-profile.IdealHumidity)/40, 0, 1),
		Transit:     clamp((transit/24)/math.Max(1, float64(profile.ShelfLifeDays)*0.3), 0, 1),
		Multiplier:  multiplier,
	}
	base := WeightStorage*p.Storage +
		WeightTemperature*p.Temperature +
		WeightHumidity*p.Humidity +
		WeightTransit*p.Transit
	// Zero penalties stay zero under an infinite multiplier rather than NaN.
	if base > 0 {
		p.Raw = base * multiplier
	}
	return p
}

// TierFor maps a risk score onto the shared tier scale.
func TierFor(score int) domain.RiskTier {
	switch {
	case score >= HighThreshold:
		return domain.TierHigh
	case score >= MediumThreshold:
		return domain.TierMedium
	default:
		return domain.TierLow
	}
}

func normalizeStorage(class domain.StorageClass) domain.StorageClass {
	s := domain.StorageClass(strings.ToLower(strings.TrimSpace(string(class))))
	if s == "" {
		return domain.StorageBasicShed
	}
	return s
}

func summary(tier domain.RiskTier, daysSafe int) string {
	switch tier {
	case domain.TierHigh:
		return fmt.Sprintf("High spoilage risk. Safe for only %d day(s). Act immediately.", daysSafe)
	case domain.TierMedium:
		return fmt.Sprintf("Moderate spoilage risk. Safe for %d day(s). Improve storage.", daysSafe)
	default:
		return fmt.Sprintf("Low spoilage risk. Safe for %d day(s). Conditions acceptable.", daysSafe)
	}
}

func clamp(v, lo, hi float64) float64 {
	// NaN inputs collapse to the lower bound
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
