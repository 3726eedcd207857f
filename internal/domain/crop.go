package domain

// CropProfile describes how a harvested crop behaves in storage.
// Profiles are loaded once at start and never mutated.
type CropProfile struct {
	Name          string  `json:"name"`
	ShelfLifeDays int     `json:"shelf_life_days"`
	IdealTemp     float64 `json:"ideal_temperature"` // °C
	IdealHumidity float64 `json:"ideal_humidity"`    // % RH
	StorageTip    string  `json:"storage_tip"`
	SpoilageNotes string  `json:"spoilage_notes"`
}

// DefaultCropName is the profile used for unknown crops.
const DefaultCropName = "Default"

// EquivalenceClass is a crop identity understood by the suitability classifier.
type EquivalenceClass string

const (
	EquivalenceCarrots      EquivalenceClass = "Carrots"
	EquivalenceChili        EquivalenceClass = "Chili"
	EquivalenceCinnamon     EquivalenceClass = "Cinnamon"
	EquivalenceCorn         EquivalenceClass = "Corn"
	EquivalenceEggplant     EquivalenceClass = "Eggplant"
	EquivalenceRice         EquivalenceClass = "Rice"
	EquivalenceStrawberries EquivalenceClass = "Strawberries"
	EquivalenceSunflowers   EquivalenceClass = "Sunflowers"
	EquivalenceTomato       EquivalenceClass = "Tomato"
	EquivalenceWheat        EquivalenceClass = "Wheat"
)

// DefaultEquivalence is returned for crops with no hand-authored mapping.
const DefaultEquivalence = EquivalenceTomato

// StorageClass is where the produce is held before sale.
type StorageClass string

const (
	StorageOpenAir     StorageClass = "open_air"
	StorageBasicShed   StorageClass = "basic_shed"
	StorageCoolStorage StorageClass = "cool_storage"
	StorageColdStorage StorageClass = "cold_storage"
)

// StorageClasses lists the closed set in order of increasing protection.
var StorageClasses = []StorageClass{
	StorageOpenAir, StorageBasicShed, StorageCoolStorage, StorageColdStorage,
}

// StorageInfo describes a storage class for display.
type StorageInfo struct {
	Value       StorageClass `json:"value"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Risk        string       `json:"risk"`
	Penalty     float64      `json:"penalty"`
}

// RiskTier is the shared Low/Medium/High severity scale.
type RiskTier string

const (
	TierLow    RiskTier = "Low"
	TierMedium RiskTier = "Medium"
	TierHigh   RiskTier = "High"
)

// Rank orders tiers so they can be compared; unknown tiers rank lowest.
func (t RiskTier) Rank() int {
	switch t {
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	case TierLow:
		return 1
	default:
		return 0
	}
}
