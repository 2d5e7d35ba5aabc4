package model

import "time"

type AssessmentStatus string

const (
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentCompleted  AssessmentStatus = "completed"
)

// AIAnalysis is the numeric part of a fusion round as stored on the session
type AIAnalysis struct {
	MultimodalScores ScoreSet      `json:"multimodal_scores" bson:"multimodal_scores"`
	FusedScore       float64       `json:"fused_score" bson:"fused_score"`
	Symptoms         SymptomVector `json:"symptoms" bson:"symptoms"`
	ModalitiesUsed   int           `json:"modalities_used" bson:"modalities_used"`
	Timestamp        time.Time     `json:"timestamp" bson:"timestamp"`
}

// AssessmentReport is the narrative and guidance attached to a finished round
type AssessmentReport struct {
	Content         string    `json:"content" bson:"content"`
	Recommendations []string  `json:"recommendations" bson:"recommendations"`
	GeneratedAt     time.Time `json:"generated_at" bson:"generated_at"`
}

// AssessmentSession tracks one subject's screening. Read-only once completed.
type AssessmentSession struct {
	ID             string            `json:"id" bson:"_id"`
	UserID         string            `json:"user_id" bson:"user_id"`
	AssessmentType string            `json:"assessment_type" bson:"assessment_type"`
	Status         AssessmentStatus  `json:"status" bson:"status"`
	AIAnalysis     *AIAnalysis       `json:"ai_analysis,omitempty" bson:"ai_analysis,omitempty"`
	RiskLevel      int               `json:"risk_level" bson:"risk_level"`
	Score          int               `json:"score" bson:"score"` // round((10-fused)*10), higher is healthier
	Report         *AssessmentReport `json:"report,omitempty" bson:"report,omitempty"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" bson:"updated_at"`
}

// FusionUpdate is what a completed fusion round writes onto the session
type FusionUpdate struct {
	UserID     string
	AIAnalysis AIAnalysis
	RiskLevel  int
	Score      int
	Report     AssessmentReport
}

// IsCompleted reports whether the session has its final report
func (s *AssessmentSession) IsCompleted() bool {
	return s.Status == AssessmentCompleted
}
