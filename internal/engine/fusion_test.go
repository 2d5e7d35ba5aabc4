package engine

import (
	"math"
	"testing"

	"mindscreen/internal/model"
)

func TestRiskLevelRoundsHalfUp(t *testing.T) {
	tests := []struct {
		composite float64
		want      int
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{6.5, 7},
		{7.33, 7},
		{7.49, 7},
		{7.5, 8},
		{9.5, 10},
		{10, 10},
	}
	for _, tt := range tests {
		if got := RiskLevel(tt.composite); got != tt.want {
			t.Errorf("RiskLevel(%v) = %d, want %d", tt.composite, got, tt.want)
		}
	}
}

func TestFuseFullSignalIdentity(t *testing.T) {
	p := DefaultParams()
	for _, s := range []float64{0.5, 3, 7.25, 10} {
		scores := model.ScoreSet{}
		for _, m := range model.Modalities {
			scores[m] = s
		}
		res := Fuse(scores, p)
		if math.Abs(res.CompositeScore-s) > 1e-9 {
			t.Errorf("all modalities at %v: composite = %v", s, res.CompositeScore)
		}
		if res.ModalitiesUsed != 4 {
			t.Errorf("all modalities at %v: used = %d", s, res.ModalitiesUsed)
		}
	}
}

func TestFuseCompositeStaysInRange(t *testing.T) {
	p := DefaultParams()
	values := []float64{0, 0.1, 2.5, 5, 9.99, 10}
	for _, tv := range values {
		for _, iv := range values {
			for _, vv := range values {
				scores := model.ScoreSet{model.ModalityText: tv, model.ModalityImage: iv, model.ModalityVoice: vv}
				c := Fuse(scores, p).CompositeScore
				if c < 0 || c > 10 {
					t.Fatalf("scores %v: composite %v out of range", scores, c)
				}
			}
		}
	}
}

func TestFuseScenarioTextAndVoice(t *testing.T) {
	res := Fuse(model.ScoreSet{model.ModalityText: 8, model.ModalityVoice: 6}, DefaultParams())

	if math.Abs(res.CompositeScore-22.0/3.0) > 1e-9 {
		t.Errorf("composite = %v, want 7.33", res.CompositeScore)
	}
	if res.RiskLevel != 7 {
		t.Errorf("risk level = %d, want 7", res.RiskLevel)
	}
	if res.ModalitiesUsed != 2 {
		t.Errorf("modalities used = %d, want 2", res.ModalitiesUsed)
	}
	if res.Weights[model.ModalityImage] != 0 || res.Weights[model.ModalityVideo] != 0 {
		t.Errorf("absent modalities carry weight: %v", res.Weights)
	}
}

func TestFuseNoSignal(t *testing.T) {
	res := Fuse(model.ScoreSet{}, DefaultParams())
	if res.CompositeScore != 0 || res.RiskLevel != 0 || res.ModalitiesUsed != 0 {
		t.Errorf("empty round = %+v, want all zero", res)
	}
	if res.Weights.Sum() != 0 {
		t.Errorf("empty round weights = %v", res.Weights)
	}
}
