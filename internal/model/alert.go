package model

import "time"

// AlertCategoryFusion tags alerts raised automatically by the fusion round
const AlertCategoryFusion = "multimodal_fusion"

// AlertTier is the escalation band an alert was raised for; one alert per session and band
type AlertTier string

const (
	AlertElevated AlertTier = "elevated"
	AlertCritical AlertTier = "critical"
)

// AlertRecord flags a session for human review
type AlertRecord struct {
	ID              string    `json:"id" bson:"_id"`
	SubjectID       string    `json:"subjectId" bson:"subjectId"`
	RiskLevel       int       `json:"riskLevel" bson:"riskLevel"`
	CompositeScore  float64   `json:"compositeScore" bson:"compositeScore"`
	Description     string    `json:"description" bson:"description"`
	Category        string    `json:"category" bson:"category"`
	Tier            AlertTier `json:"tier" bson:"tier"`
	SourceSessionID string    `json:"sourceSessionId" bson:"sourceSessionId"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}
