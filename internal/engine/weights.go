package engine

import "mindscreen/internal/model"

// isActive reports whether a modality contributes to the round
func isActive(scores model.ScoreSet, m model.Modality, p Params) bool {
	v, ok := scores.Get(m)
	if !ok {
		return false
	}
	if p.ZeroIsSignal {
		return v >= 0
	}
	return v > 0
}

// ActiveModalities lists the contributing modalities in canonical order
func ActiveModalities(scores model.ScoreSet, p Params) []model.Modality {
	active := make([]model.Modality, 0, len(model.Modalities))
	for _, m := range model.Modalities {
		if isActive(scores, m, p) {
			active = append(active, m)
		}
	}
	return active
}

// Rebalance renormalizes the base weights over whichever modalities fired,
// keeping their relative ratios. Inactive modalities get exactly 0.
func Rebalance(scores model.ScoreSet, p Params) model.WeightTable {
	active := ActiveModalities(scores, p)
	if len(active) == len(model.Modalities) {
		return p.BaseWeights.Clone()
	}

	out := make(model.WeightTable, len(model.Modalities))
	for _, m := range model.Modalities {
		out[m] = 0
	}
	if len(active) == 0 {
		return out
	}

	total := 0.0
	for _, m := range active {
		total += p.BaseWeights[m]
	}
	for _, m := range active {
		out[m] = p.BaseWeights[m] / total
	}
	return out
}
