package scoring

import (
	"math"

	"github.com/showroomhq/advisor/internal/store"
)

// DecisionMatrix is the TOPSIS input: one row per vehicle, one column per
// criterion in canonical order. Row i corresponds to the i-th vehicle handed
// to the builder, so scores can be joined back by position.
type DecisionMatrix struct {
	Criteria []Criterion
	Rows     [][]float64
}

// BuildDistanceMatrix frames every criterion as a cost: each cell is the
// absolute distance between a vehicle's value and the user's target.
// Categorical criteria go through their score maps first.
//
// A target category missing from its map is an UnknownCategoryError. A vehicle
// category missing from its map yields a NaN cell instead of an error: the
// catalog is validated upstream, and a poisoned cell is caught by the ranker's
// input checks rather than silently scored.
func BuildDistanceMatrix(vehicles []*store.Vehicle, prefs store.Preferences, fuelScores, bodyScores CategoryScores) (*DecisionMatrix, error) {
	if len(vehicles) == 0 {
		return nil, &InvalidInputError{Reason: "no vehicles to score"}
	}

	fuelTarget, ok := fuelScores[prefs.FuelType]
	if !ok {
		return nil, &UnknownCategoryError{Criterion: CriterionFuelType, Value: prefs.FuelType}
	}
	bodyTarget, ok := bodyScores[prefs.BodyStyle]
	if !ok {
		return nil, &UnknownCategoryError{Criterion: CriterionBodyStyle, Value: prefs.BodyStyle}
	}

	rows := make([][]float64, len(vehicles))
	for i, v := range vehicles {
		rows[i] = []float64{
			math.Abs(categoryScore(fuelScores, v.FuelType) - fuelTarget),
			math.Abs(v.Horsepower - prefs.Horsepower),
			math.Abs(float64(v.DoorCount - prefs.DoorCount)),
			math.Abs(categoryScore(bodyScores, v.BodyStyle) - bodyTarget),
		}
	}

	return &DecisionMatrix{Criteria: Criteria(), Rows: rows}, nil
}

func categoryScore(scores CategoryScores, label string) float64 {
	if v, ok := scores[label]; ok {
		return v
	}
	return math.NaN()
}
