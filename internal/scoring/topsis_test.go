package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/showroomhq/advisor/internal/store"
)

func TestTOPSISScoresBounds(t *testing.T) {
	matrix := [][]float64{
		{2, 30, 0, 2},
		{0, 54, 1, 0},
		{1, 5, 2, 1},
	}
	scores, err := TOPSISScores(matrix, []float64{0.4, 0.3, 0.2, 0.1}, DefaultDirections())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	for i, s := range scores {
		if s < 0 || s > 1 {
			t.Errorf("score %d out of [0,1]: %f", i, s)
		}
		if math.IsNaN(s) {
			t.Errorf("score %d is NaN", i)
		}
	}
}

func TestTOPSISBenefitAndCostDirections(t *testing.T) {
	matrix := [][]float64{{1}, {3}}

	scores, err := TOPSISScores(matrix, []float64{1}, []Direction{DirectionBenefit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores[0] != 0 || scores[1] != 1 {
		t.Errorf("benefit: expected [0 1], got %v", scores)
	}

	scores, err = TOPSISScores(matrix, []float64{1}, []Direction{DirectionCost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores[0] != 1 || scores[1] != 0 {
		t.Errorf("cost: expected [1 0], got %v", scores)
	}
}

func TestTOPSISClosestHorsepowerWins(t *testing.T) {
	// Identical vehicles except horsepower, uniform pairwise judgments:
	// the vehicle closest to the stated horsepower must rank first.
	vehicles := []*store.Vehicle{
		testVehicle("benzin", 90, 4, "sedan"),
		testVehicle("benzin", 149, 4, "sedan"),
		testVehicle("benzin", 260, 4, "sedan"),
	}
	prefs := store.Preferences{FuelType: "benzin", Horsepower: 150, DoorCount: 4, BodyStyle: "sedan"}

	dm, err := BuildDistanceMatrix(vehicles, prefs, DefaultFuelScores(), DefaultBodyStyleScores())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := SolveAHP(IdentityMatrix(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scores, err := TOPSISScores(dm.Rows, res.Weights, DefaultDirections())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := RankOrder(scores)
	if order[0] != 1 {
		t.Errorf("expected the 149hp vehicle to rank first, got order %v with scores %v", order, scores)
	}
	if order[2] != 2 {
		t.Errorf("expected the 260hp vehicle to rank last, got order %v", order)
	}
}

func TestTOPSISTargetHorsepowerExactIdeal(t *testing.T) {
	// Only horsepower carries weight and only its column varies: the vehicle
	// at distance 0 from the target is the exact ideal and scores 1, and the
	// two equidistant vehicles tie at 0.
	matrix := [][]float64{
		{0, 50, 0, 0},
		{0, 0, 0, 0},
		{0, 50, 0, 0},
	}
	scores, err := TOPSISScores(matrix, []float64{0, 1, 0, 0}, DefaultDirections())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores[1] != 1 {
		t.Errorf("expected exact score 1 for the on-target vehicle, got %f", scores[1])
	}
	if scores[0] != 0 || scores[2] != 0 {
		t.Errorf("expected the equidistant vehicles to score 0, got %v", scores)
	}
	if order := RankOrder(scores); order[0] != 1 {
		t.Errorf("expected the on-target vehicle to rank first, got %v", order)
	}
}

func TestTOPSISSingleRowScoresZero(t *testing.T) {
	scores, err := TOPSISScores([][]float64{{2, 30, 0, 2}}, []float64{0.25, 0.25, 0.25, 0.25}, DefaultDirections())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores[0] != 0 {
		t.Errorf("a lone row is its own ideal and anti-ideal, expected 0, got %f", scores[0])
	}
}

func TestTOPSISIdenticalRowsScoreZero(t *testing.T) {
	matrix := [][]float64{
		{1, 2, 3},
		{1, 2, 3},
	}
	scores, err := TOPSISScores(matrix, []float64{1, 1, 1}, []Direction{DirectionCost, DirectionCost, DirectionCost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range scores {
		if s != 0 {
			t.Errorf("score %d: expected 0 for identical rows, got %f", i, s)
		}
	}
}

func TestTOPSISZeroColumn(t *testing.T) {
	// Every vehicle hits the target on one criterion; the zero column must not
	// produce NaN through the norm division.
	matrix := [][]float64{
		{0, 10},
		{0, 20},
	}
	scores, err := TOPSISScores(matrix, []float64{0.5, 0.5}, []Direction{DirectionCost, DirectionCost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range scores {
		if math.IsNaN(s) {
			t.Fatalf("score %d is NaN", i)
		}
	}
	if scores[0] != 1 || scores[1] != 0 {
		t.Errorf("expected [1 0], got %v", scores)
	}
}

func TestTOPSISColumnRescaleInvariance(t *testing.T) {
	matrix := [][]float64{
		{2, 30, 1, 2},
		{0, 54, 3, 0},
		{1, 5, 2, 1},
	}
	scaled := [][]float64{
		{2, 3000, 1, 2},
		{0, 5400, 3, 0},
		{1, 500, 2, 1},
	}
	weights := []float64{0.4, 0.3, 0.2, 0.1}

	base, err := TOPSISScores(matrix, weights, DefaultDirections())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rescaled, err := TOPSISScores(scaled, weights, DefaultDirections())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range base {
		if math.Abs(base[i]-rescaled[i]) > 1e-12 {
			t.Errorf("score %d changed under column rescale: %f vs %f", i, base[i], rescaled[i])
		}
	}
}

func TestTOPSISWeightRescaleInvariance(t *testing.T) {
	matrix := [][]float64{
		{2, 30, 1, 2},
		{0, 54, 3, 0},
	}
	base, err := TOPSISScores(matrix, []float64{1, 2, 3, 4}, DefaultDirections())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doubled, err := TOPSISScores(matrix, []float64{2, 4, 6, 8}, DefaultDirections())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range base {
		if math.Abs(base[i]-doubled[i]) > 1e-12 {
			t.Errorf("score %d changed under weight rescale: %f vs %f", i, base[i], doubled[i])
		}
	}
}

func TestTOPSISEmptyMatrix(t *testing.T) {
	for i, m := range [][][]float64{nil, {}, {{}}} {
		_, err := TOPSISScores(m, []float64{1}, []Direction{DirectionCost})
		var inputErr *InvalidInputError
		if !errors.As(err, &inputErr) {
			t.Errorf("case %d: expected InvalidInputError, got %v", i, err)
		}
	}
}

func TestTOPSISRaggedMatrix(t *testing.T) {
	_, err := TOPSISScores([][]float64{{1, 2}, {3}}, []float64{0.5, 0.5}, []Direction{DirectionCost, DirectionCost})
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
}

func TestTOPSISNonFiniteCell(t *testing.T) {
	for i, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := TOPSISScores([][]float64{{1, bad}}, []float64{0.5, 0.5}, []Direction{DirectionCost, DirectionCost})
		var inputErr *InvalidInputError
		if !errors.As(err, &inputErr) {
			t.Errorf("case %d: expected InvalidInputError, got %v", i, err)
		}
	}
}

func TestTOPSISWeightErrors(t *testing.T) {
	matrix := [][]float64{{1, 2}, {3, 4}}
	directions := []Direction{DirectionCost, DirectionCost}

	_, err := TOPSISScores(matrix, []float64{1}, directions)
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Errorf("length mismatch: expected ShapeError, got %v", err)
	}

	var inputErr *InvalidInputError
	_, err = TOPSISScores(matrix, []float64{-0.5, 1}, directions)
	if !errors.As(err, &inputErr) {
		t.Errorf("negative weight: expected InvalidInputError, got %v", err)
	}
	_, err = TOPSISScores(matrix, []float64{math.NaN(), 1}, directions)
	if !errors.As(err, &inputErr) {
		t.Errorf("NaN weight: expected InvalidInputError, got %v", err)
	}
	_, err = TOPSISScores(matrix, []float64{0, 0}, directions)
	if !errors.As(err, &inputErr) {
		t.Errorf("zero sum: expected InvalidInputError, got %v", err)
	}
}

func TestTOPSISDirectionErrors(t *testing.T) {
	matrix := [][]float64{{1, 2}, {3, 4}}

	_, err := TOPSISScores(matrix, []float64{0.5, 0.5}, []Direction{DirectionCost})
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Errorf("length mismatch: expected ShapeError, got %v", err)
	}

	_, err = TOPSISScores(matrix, []float64{0.5, 0.5}, []Direction{DirectionCost, Direction("sideways")})
	var inputErr *InvalidInputError
	if !errors.As(err, &inputErr) {
		t.Errorf("bad direction: expected InvalidInputError, got %v", err)
	}
}

func TestRankOrderDescendingStable(t *testing.T) {
	order := RankOrder([]float64{0.2, 0.8, 0.2, 0.5})
	want := []int{1, 3, 0, 2}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestRankOrderEmpty(t *testing.T) {
	if order := RankOrder(nil); len(order) != 0 {
		t.Errorf("expected empty order, got %v", order)
	}
}
