package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownModality = errors.New("unknown modality")
	ErrInvalidScore    = errors.New("invalid modality score")
)

// Modality is one of the independent input channels a severity score can come from
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
	ModalityVoice Modality = "voice"
	ModalityVideo Modality = "video"
)

// Modalities is the closed set, in canonical order
var Modalities = []Modality{ModalityText, ModalityImage, ModalityVoice, ModalityVideo}

// MaxScore is the top of the severity scale shared by every analyzer
const MaxScore = 10.0

// ParseModality maps a wire name onto the closed enum
func ParseModality(name string) (Modality, error) {
	for _, m := range Modalities {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModality, name)
}

// ScoreSet holds the per-modality severity scores of one round.
// A missing key means the analyzer produced no signal.
type ScoreSet map[Modality]float64

// Get returns the score and whether the modality reported at all
func (s ScoreSet) Get(m Modality) (float64, bool) {
	v, ok := s[m]
	return v, ok
}

// Value returns the score, reading absent modalities as 0
func (s ScoreSet) Value(m Modality) float64 {
	return s[m]
}

// ValidateScore rejects NaN, infinities and negatives, and clamps anything above MaxScore
func ValidateScore(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v is not a finite number", ErrInvalidScore, v)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %v is negative", ErrInvalidScore, v)
	}
	if v > MaxScore {
		return MaxScore, nil
	}
	return v, nil
}

// WeightTable maps every modality to its fusion weight
type WeightTable map[Modality]float64

// Sum adds up the weights of all modalities
func (w WeightTable) Sum() float64 {
	total := 0.0
	for _, m := range Modalities {
		total += w[m]
	}
	return total
}

// Clone copies the table so callers cannot mutate shared defaults
func (w WeightTable) Clone() WeightTable {
	out := make(WeightTable, len(Modalities))
	for _, m := range Modalities {
		out[m] = w[m]
	}
	return out
}
