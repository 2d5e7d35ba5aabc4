package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mindscreen/internal/model"
)

func TestDecomposeSymptoms(t *testing.T) {
	scores := model.ScoreSet{
		model.ModalityText:  8,
		model.ModalityImage: 4,
		model.ModalityVoice: 6,
		model.ModalityVideo: 2,
	}
	want := model.SymptomVector{
		model.SymptomLowMood:           5.0, // 8*.5 + 2*.5
		model.SymptomLossOfInterest:    7.2, // 8*.6 + 6*.4
		model.SymptomSleepDisturbance:  6.8, // 8*.7 + 4*.3
		model.SymptomLowEnergy:         4.0, // 6*.5 + 2*.5
		model.SymptomLowSelfWorth:      7.2, // 8*.8 + 4*.2
		model.SymptomPoorConcentration: 7.0, // 8*.5 + 6*.5
	}
	if diff := cmp.Diff(want, DecomposeSymptoms(scores)); diff != "" {
		t.Errorf("DecomposeSymptoms mismatch (-want +got):\n%s", diff)
	}
}

func TestDecomposeSymptomsTreatsMissingAsZero(t *testing.T) {
	got := DecomposeSymptoms(model.ScoreSet{model.ModalityText: 5})
	want := model.SymptomVector{
		model.SymptomLowMood:           2.5,
		model.SymptomLossOfInterest:    3.0,
		model.SymptomSleepDisturbance:  3.5,
		model.SymptomLowEnergy:         0,
		model.SymptomLowSelfWorth:      4.0,
		model.SymptomPoorConcentration: 2.5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecomposeSymptomsRoundsToOneDecimal(t *testing.T) {
	got := DecomposeSymptoms(model.ScoreSet{model.ModalityText: 7.77, model.ModalityVideo: 1.11})
	if got[model.SymptomLowMood] != 4.4 {
		t.Errorf("low mood = %v, want 4.4", got[model.SymptomLowMood])
	}
	if len(SymptomDimensions()) != 6 {
		t.Errorf("expected 6 dimensions, got %d", len(SymptomDimensions()))
	}
}
