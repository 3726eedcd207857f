package domain

// SpoilageInput holds the signals needed to score post-harvest spoilage.
type SpoilageInput struct {
	Crop         string       `json:"crop"`
	Storage      StorageClass `json:"storage_type"`
	TransitHours float64      `json:"transit_hours"`
	Temperature  float64      `json:"temperature"` // °C
	Humidity     float64      `json:"humidity"`    // % RH
	// Multiplier is the weather-derived acceleration; 0 means 1.0.
	Multiplier float64 `json:"spoilage_multiplier"`
}

// SpoilagePenalties exposes the individual terms behind a risk score.
type SpoilagePenalties struct {
	Storage     float64 `json:"storage"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Transit     float64 `json:"transit"`
	Multiplier  float64 `json:"multiplier"`
	Raw         float64 `json:"raw"`
}

// SpoilageAssessment is the spoilage engine's verdict.
type SpoilageAssessment struct {
	Crop         string             `json:"crop"`
	Storage      StorageClass       `json:"storage_type"`
	RiskScore    int                `json:"risk_score"`
	RiskTier     RiskTier           `json:"risk_tier"`
	DaysSafe     int                `json:"days_safe"`
	Actions      []MitigationAction `json:"actions"`
	Summary      string             `json:"summary"`
	StorageTip   string             `json:"storage_tip"`
	SpoilageNote string             `json:"spoilage_note"`
	Penalties    SpoilagePenalties  `json:"penalties"`
}

// CostTier classifies how much a mitigation action costs the farmer.
type CostTier string

const (
	CostFree          CostTier = "free"
	CostLow           CostTier = "low"
	CostModerate      CostTier = "moderate"
	CostTransportOnly CostTier = "transport_only"
)

// ImpactTier classifies how much a mitigation action helps.
type ImpactTier string

const (
	ImpactMedium   ImpactTier = "Medium"
	ImpactHigh     ImpactTier = "High"
	ImpactVeryHigh ImpactTier = "Very High"
)

// MitigationAction is one recommended preservation step.
type MitigationAction struct {
	Label       string     `json:"action"`
	Cost        CostTier   `json:"cost_tier"`
	CostText    string     `json:"cost"`
	Impact      ImpactTier `json:"impact"`
	Description string     `json:"description"`
}
