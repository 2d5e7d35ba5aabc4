package engine

import (
	"fmt"
	"time"

	"mindscreen/internal/model"
)

// AlertInput is what the alert decision looks at
type AlertInput struct {
	SubjectID      string
	SessionID      string
	RiskLevel      int
	CompositeScore float64
}

// AlertTierFor names the escalation band used to deduplicate alerts per session
func AlertTierFor(riskLevel int, p Params) model.AlertTier {
	if riskLevel >= p.Tiers.Urgent {
		return model.AlertCritical
	}
	return model.AlertElevated
}

// EvaluateAlert returns the alert to raise, or nil below the threshold.
// The record has no ID yet; the alert service assigns one on insert.
func EvaluateAlert(in AlertInput, p Params, now time.Time) *model.AlertRecord {
	if in.RiskLevel < p.AlertThreshold {
		return nil
	}
	return &model.AlertRecord{
		SubjectID:      in.SubjectID,
		RiskLevel:      in.RiskLevel,
		CompositeScore: in.CompositeScore,
		Description: fmt.Sprintf("[%s] automated multimodal fusion escalation: composite risk score %.2f (risk level %d)",
			model.AlertCategoryFusion, in.CompositeScore, in.RiskLevel),
		Category:        model.AlertCategoryFusion,
		Tier:            AlertTierFor(in.RiskLevel, p),
		SourceSessionID: in.SessionID,
		CreatedAt:       now,
	}
}
