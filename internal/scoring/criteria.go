package scoring

import (
	"fmt"
	"math"
)

// Criterion identifies one axis of the vehicle comparison.
type Criterion string

const (
	CriterionFuelType   Criterion = "fuel_type"
	CriterionHorsepower Criterion = "horsepower"
	CriterionDoorCount  Criterion = "door_count"
	CriterionBodyStyle  Criterion = "body_style"
)

// Criteria returns the canonical criterion order. Pairwise matrices, weight
// vectors, and decision matrix columns are all aligned with this order.
func Criteria() []Criterion {
	return []Criterion{CriterionFuelType, CriterionHorsepower, CriterionDoorCount, CriterionBodyStyle}
}

// Categorical reports whether the criterion compares category labels rather
// than raw numbers.
func (c Criterion) Categorical() bool {
	return c == CriterionFuelType || c == CriterionBodyStyle
}

// Direction tells the ranker whether larger or smaller column values are
// preferable.
type Direction string

const (
	DirectionBenefit Direction = "benefit"
	DirectionCost    Direction = "cost"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionBenefit, DirectionCost:
		return d, nil
	}
	return "", &InvalidInputError{Reason: fmt.Sprintf("direction must be %q or %q, got %q", DirectionBenefit, DirectionCost, s)}
}

// DefaultDirections marks every criterion as cost. Distance matrix columns
// measure how far a vehicle sits from the user's target, so smaller is better.
func DefaultDirections() []Direction {
	return []Direction{DirectionCost, DirectionCost, DirectionCost, DirectionCost}
}

// CategoryScores maps a categorical label to the numeric stand-in used when
// computing distances.
type CategoryScores map[string]float64

// DefaultFuelScores returns the stock fuel type scale.
func DefaultFuelScores() CategoryScores {
	return CategoryScores{"elektrik": 5, "hibrit": 4, "benzin": 3, "dizel": 2}
}

// DefaultBodyStyleScores returns the stock body style scale.
func DefaultBodyStyleScores() CategoryScores {
	return CategoryScores{"hb": 3, "sedan": 2, "suv": 4, "kupe": 3}
}

// Validate rejects empty maps and non-finite or negative scores.
func (cs CategoryScores) Validate() error {
	if len(cs) == 0 {
		return &InvalidInputError{Reason: "category score map must not be empty"}
	}
	for label, v := range cs {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return &InvalidInputError{Reason: fmt.Sprintf("category %q has invalid score %v, must be finite and non-negative", label, v)}
		}
	}
	return nil
}

// Clone returns an independent copy so callers can layer overrides without
// mutating the defaults.
func (cs CategoryScores) Clone() CategoryScores {
	out := make(CategoryScores, len(cs))
	for k, v := range cs {
		out[k] = v
	}
	return out
}
