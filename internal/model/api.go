package model

// FusionResponse is the payload returned to the caller of a fusion round
type FusionResponse struct {
	Success         bool          `json:"success"`
	FusedScore      float64       `json:"fused_score"`
	RiskLevel       int           `json:"risk_level"`
	Symptoms        SymptomVector `json:"symptoms"`
	Recommendations []string      `json:"recommendations"`
	DetailedReport  string        `json:"detailed_report"`
	ModalitiesUsed  int           `json:"modalities_used"`
	WeightsApplied  WeightTable   `json:"weights_applied"`
}

// FusionInput is a validated fusion request
type FusionInput struct {
	UserID       string
	AssessmentID string
	Scores       ScoreSet
}

// DialogueInput is one screening dialogue turn
type DialogueInput struct {
	Query          string
	History        []ChatMessage
	AssessmentType string
}

// DialogueResponse carries the generated reply plus the derived stage
type DialogueResponse struct {
	Reply          string `json:"reply"`
	Model          string `json:"model,omitempty"`
	KnowledgeUsed  int    `json:"knowledge_used"`
	AssessmentType string `json:"assessment_type"`
	Stage          Stage  `json:"stage"`
	Directive      string `json:"directive"`
	MessageCount   int    `json:"message_count"`
}
