package engine

import (
	"testing"

	"mindscreen/internal/model"
)

func TestTierBoundaries(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		composite float64
		want      model.Tier
	}{
		{8, model.TierUrgent},
		{7.999, model.TierUrgent}, // rounds to 8
		{7.4, model.TierModerate},
		{5, model.TierModerate},
		{4.999, model.TierModerate}, // rounds to 5
		{4.4, model.TierMild},
		{3, model.TierMild},
		{2.999, model.TierMild}, // rounds to 3
		{2.4, model.TierMinimal},
		{0, model.TierMinimal},
	}
	for _, tt := range tests {
		level := RiskLevel(tt.composite)
		if got := TierFor(level, p); got != tt.want {
			t.Errorf("composite %v (level %d): tier %s, want %s", tt.composite, level, got, tt.want)
		}
	}
}

func TestTierBoundariesOnTruncatedLevels(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		level int
		want  model.Tier
	}{
		{8, model.TierUrgent},
		{7, model.TierModerate},
		{5, model.TierModerate},
		{4, model.TierMild},
		{3, model.TierMild},
		{2, model.TierMinimal},
	}
	for _, tt := range tests {
		if got := TierFor(tt.level, p); got != tt.want {
			t.Errorf("level %d: tier %s, want %s", tt.level, got, tt.want)
		}
		if n := len(Recommend(tt.level, p)); n != 3 {
			t.Errorf("level %d: %d recommendations, want 3", tt.level, n)
		}
	}
}

func TestRecommendReturnsFreshSlice(t *testing.T) {
	p := DefaultParams()
	first := Recommend(9, p)
	first[0] = "changed"
	if Recommend(9, p)[0] == "changed" {
		t.Fatal("Recommend exposed its internal table")
	}
}
