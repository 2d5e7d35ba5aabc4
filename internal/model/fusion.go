package model

// SymptomDimension is a named clinical-style axis derived from two modality scores
type SymptomDimension string

const (
	SymptomLowMood           SymptomDimension = "low_mood"
	SymptomLossOfInterest    SymptomDimension = "loss_of_interest"
	SymptomSleepDisturbance  SymptomDimension = "sleep_disturbance"
	SymptomLowEnergy         SymptomDimension = "low_energy"
	SymptomLowSelfWorth      SymptomDimension = "low_self_worth"
	SymptomPoorConcentration SymptomDimension = "poor_concentration"
)

// SymptomVector holds one value in [0,10] per dimension
type SymptomVector map[SymptomDimension]float64

// FusionResult is the outcome of one multimodal round
type FusionResult struct {
	CompositeScore float64       `json:"compositeScore"` // 0-10
	RiskLevel      int           `json:"riskLevel"`      // round-half-up of CompositeScore
	Symptoms       SymptomVector `json:"symptoms"`
	ModalitiesUsed int           `json:"modalitiesUsed"`
	Weights        WeightTable   `json:"weights"`
}

// Tier selects which guidance set applies to a risk level
type Tier string

const (
	TierUrgent   Tier = "urgent"
	TierModerate Tier = "moderate"
	TierMild     Tier = "mild"
	TierMinimal  Tier = "minimal"
)
