package srs

import (
	"math/rand/v2"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// RandSource produces uniform integers in [0, n). *rand.Rand satisfies it,
// which lets tests inject a seeded generator.
type RandSource interface {
	IntN(n int) int
}

// globalRand draws from the math/rand/v2 top-level generator.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRandSource returns the process-wide random source.
func DefaultRandSource() RandSource {
	return globalRand{}
}

// WeightedPicker draws one card from a candidate list proportionally to weight.
type WeightedPicker struct {
	rng    RandSource
	weight func(*domain.Card) int
}

// NewWeightedPicker creates a picker. A nil rng selects DefaultRandSource.
func NewWeightedPicker(rng RandSource, weight func(*domain.Card) int) *WeightedPicker {
	if rng == nil {
		rng = DefaultRandSource()
	}
	return &WeightedPicker{rng: rng, weight: weight}
}

// Pick returns the chosen candidate, or nil when candidates is empty.
//
// The draw sums all weights into total, takes r uniformly from [0, total)
// and walks the candidates accumulating weight; the first candidate whose
// cumulative weight exceeds r wins.
func (p *WeightedPicker) Pick(candidates []*domain.Card) *domain.Card {
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}

	weights := make([]int, len(candidates))
	total := 0
	for i, card := range candidates {
		w := p.weight(card)
		if w < 1 {
			w = 1
		}
		weights[i] = w
		total += w
	}

	// IntN panics on a non-positive bound.
	if total <= 0 {
		return candidates[0]
	}

	r := p.rng.IntN(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if cumulative > r {
			return candidates[i]
		}
	}

	return candidates[len(candidates)-1]
}
