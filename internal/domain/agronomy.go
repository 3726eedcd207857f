package domain

// NutrientWarning flags a district-wide micronutrient deficiency.
type NutrientWarning struct {
	Nutrient      string   `json:"nutrient"`
	DeficiencyPct float64  `json:"deficiency_pct"`
	Severity      RiskTier `json:"severity"`
	Fix           string   `json:"fix"`
}

// MicronutrientReport summarises deficiencies for a district.
type MicronutrientReport struct {
	District  string            `json:"district"`
	Warnings  []NutrientWarning `json:"warnings"`
	Summary   string            `json:"summary"`
	Available bool              `json:"available"`
}

// SuitabilityReport interprets classifier output for the farmer's crop.
type SuitabilityReport struct {
	Crop             string             `json:"crop"`
	ModelCropUsed    EquivalenceClass   `json:"model_crop_used"`
	IsSuitable       bool               `json:"is_suitable"`
	SuitabilityScore int                `json:"suitability_score"`
	Confidence       float64            `json:"confidence"`
	RecommendedCrop  string             `json:"recommended_crop"`
	TopClasses       []SuitabilityClass `json:"top_classes"`
	Reason           string             `json:"reason"`
}
