package engine

import (
	"math"

	"mindscreen/internal/model"
)

type blend struct {
	dim    model.SymptomDimension
	a, b   model.Modality
	wa, wb float64
}

// Fixed two-modality blends; each pair of weights sums to 1.
var symptomBlends = []blend{
	{model.SymptomLowMood, model.ModalityText, model.ModalityVideo, 0.5, 0.5},
	{model.SymptomLossOfInterest, model.ModalityText, model.ModalityVoice, 0.6, 0.4},
	{model.SymptomSleepDisturbance, model.ModalityText, model.ModalityImage, 0.7, 0.3},
	{model.SymptomLowEnergy, model.ModalityVoice, model.ModalityVideo, 0.5, 0.5},
	{model.SymptomLowSelfWorth, model.ModalityText, model.ModalityImage, 0.8, 0.2},
	{model.SymptomPoorConcentration, model.ModalityText, model.ModalityVoice, 0.5, 0.5},
}

// SymptomDimensions lists the dimensions in reporting order
func SymptomDimensions() []model.SymptomDimension {
	dims := make([]model.SymptomDimension, len(symptomBlends))
	for i, b := range symptomBlends {
		dims[i] = b.dim
	}
	return dims
}

// DecomposeSymptoms maps raw modality scores onto the symptom dimensions.
// Absent modalities read as 0 here, unlike in fusion.
func DecomposeSymptoms(scores model.ScoreSet) model.SymptomVector {
	out := make(model.SymptomVector, len(symptomBlends))
	for _, b := range symptomBlends {
		out[b.dim] = round1(b.wa*scores.Value(b.a) + b.wb*scores.Value(b.b))
	}
	return out
}

func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
