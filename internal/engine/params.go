// Package engine holds the pure scoring core: weight rebalancing, symptom
// decomposition, fusion, guidance tiers, alert decisions and dialogue stages.
// Nothing here does I/O, so every function is safe to call concurrently.
package engine

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"mindscreen/internal/model"
)

var ErrInvalidParams = errors.New("invalid scoring parameters")

// TierBounds are the lowest risk levels of the urgent, moderate and mild tiers
type TierBounds struct {
	Urgent   int
	Moderate int
	Mild     int
}

// StageBounds are the message counts at which the dialogue enters deep_dive and summary
type StageBounds struct {
	DeepDiveAt int
	SummaryAt  int
}

// Params are the tunable constants of the scoring core
type Params struct {
	BaseWeights    model.WeightTable
	AlertThreshold int
	Tiers          TierBounds
	Stages         StageBounds

	// ZeroIsSignal counts a reported score of exactly 0 as an active modality.
	// Off by default, so a zero reads the same as a missing analyzer.
	ZeroIsSignal bool
}

// DefaultParams returns the production weights and thresholds
func DefaultParams() Params {
	return Params{
		BaseWeights: model.WeightTable{
			model.ModalityText:  0.40,
			model.ModalityImage: 0.20,
			model.ModalityVoice: 0.20,
			model.ModalityVideo: 0.20,
		},
		AlertThreshold: 7,
		Tiers:          TierBounds{Urgent: 8, Moderate: 5, Mild: 3},
		Stages:         StageBounds{DeepDiveAt: 6, SummaryAt: 12},
	}
}

// Validate checks the invariants the algorithms rely on
func (p Params) Validate() error {
	for _, m := range model.Modalities {
		w, ok := p.BaseWeights[m]
		if !ok {
			return fmt.Errorf("%w: missing base weight for %s", ErrInvalidParams, m)
		}
		if w <= 0 || math.IsNaN(w) {
			return fmt.Errorf("%w: base weight for %s must be positive, got %v", ErrInvalidParams, m, w)
		}
	}
	for m := range p.BaseWeights {
		if _, err := model.ParseModality(string(m)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
	}
	if sum := p.BaseWeights.Sum(); math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: base weights sum to %v, want 1", ErrInvalidParams, sum)
	}
	if p.AlertThreshold < 0 || p.AlertThreshold > int(model.MaxScore) {
		return fmt.Errorf("%w: alert threshold %d outside [0,10]", ErrInvalidParams, p.AlertThreshold)
	}
	t := p.Tiers
	if !(0 < t.Mild && t.Mild < t.Moderate && t.Moderate < t.Urgent && t.Urgent <= int(model.MaxScore)) {
		return fmt.Errorf("%w: tiers must satisfy 0 < mild < moderate < urgent <= 10, got %+v", ErrInvalidParams, t)
	}
	s := p.Stages
	if !(1 < s.DeepDiveAt && s.DeepDiveAt < s.SummaryAt) {
		return fmt.Errorf("%w: stages must satisfy 1 < deep_dive_at < summary_at, got %+v", ErrInvalidParams, s)
	}
	return nil
}

// ParamStore publishes the current Params to concurrent readers.
// Store swaps them atomically, so a config reload never blocks a request.
type ParamStore struct {
	current atomic.Pointer[Params]
}

// NewParamStore validates p and makes it current
func NewParamStore(p Params) (*ParamStore, error) {
	s := &ParamStore{}
	if err := s.Store(p); err != nil {
		return nil, err
	}
	return s, nil
}

// Load returns the current parameters
func (s *ParamStore) Load() Params {
	return *s.current.Load()
}

// Store replaces the parameters; invalid ones are rejected and the old set stays
func (s *ParamStore) Store(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.BaseWeights = p.BaseWeights.Clone()
	s.current.Store(&p)
	return nil
}
