package engine

import (
	"math"

	"mindscreen/internal/model"
)

// RiskLevel rounds a composite score half-up: 7.5 becomes 8
func RiskLevel(composite float64) int {
	return int(math.Floor(composite + 0.5))
}

// Composite is the weighted sum of scores, clipped to [0,10]
func Composite(scores model.ScoreSet, weights model.WeightTable) float64 {
	total := 0.0
	for _, m := range model.Modalities {
		total += weights[m] * scores.Value(m)
	}
	return math.Max(0, math.Min(model.MaxScore, total))
}

// Fuse combines one round of modality scores into a single risk result
func Fuse(scores model.ScoreSet, p Params) model.FusionResult {
	weights := Rebalance(scores, p)
	composite := Composite(scores, weights)
	return model.FusionResult{
		CompositeScore: composite,
		RiskLevel:      RiskLevel(composite),
		Symptoms:       DecomposeSymptoms(scores),
		ModalitiesUsed: len(ActiveModalities(scores, p)),
		Weights:        weights,
	}
}
