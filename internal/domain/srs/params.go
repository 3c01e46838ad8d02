package srs

import (
	"github.com/phrazzld/scry-deck/internal/domain"
)

// Params defines the fixed scheduling table used by the study engine.
type Params struct {
	// IntervalDays is the review interval per rating, in (possibly fractional) days.
	// The value is rounded to the nearest whole day when scheduling.
	IntervalDays map[domain.Rating]float64

	// Weights biases the next-card draw towards weakly recalled cards.
	// RatingNone is the weight of cards that were never reviewed.
	Weights map[domain.Rating]int

	// MinWeight is the floor applied to every weight.
	MinWeight int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	WeakIntervalDays  float64
	GoodIntervalDays  float64
	GreatIntervalDays float64

	WeakWeight    int
	GoodWeight    int
	GreatWeight   int
	UnratedWeight int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		IntervalDays: map[domain.Rating]float64{
			domain.RatingWeak:  0.5,
			domain.RatingGood:  2,
			domain.RatingGreat: 5,
		},

		Weights: map[domain.Rating]int{
			domain.RatingWeak:  5,
			domain.RatingGood:  2,
			domain.RatingGreat: 1,
			domain.RatingNone:  2, // unrated cards count as good
		},

		MinWeight: 1,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero fields keep their default value.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.WeakIntervalDays > 0 {
		params.IntervalDays[domain.RatingWeak] = config.WeakIntervalDays
	}
	if config.GoodIntervalDays > 0 {
		params.IntervalDays[domain.RatingGood] = config.GoodIntervalDays
	}
	if config.GreatIntervalDays > 0 {
		params.IntervalDays[domain.RatingGreat] = config.GreatIntervalDays
	}

	if config.WeakWeight > 0 {
		params.Weights[domain.RatingWeak] = config.WeakWeight
	}
	if config.GoodWeight > 0 {
		params.Weights[domain.RatingGood] = config.GoodWeight
	}
	if config.GreatWeight > 0 {
		params.Weights[domain.RatingGreat] = config.GreatWeight
	}
	if config.UnratedWeight > 0 {
		params.Weights[domain.RatingNone] = config.UnratedWeight
	}

	return params
}

// Weight resolves the draw weight for a card's last rating.
// Unknown ratings get the unrated weight, and the result never drops below MinWeight.
func (p *Params) Weight(rating domain.Rating) int {
	w, ok := p.Weights[rating]
	if !ok {
		w = p.Weights[domain.RatingNone]
	}
	if w < p.MinWeight {
		w = p.MinWeight
	}
	if w < 1 {
		w = 1
	}
	return w
}
