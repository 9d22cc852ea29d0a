package scoring

import (
	"fmt"
	"math"
	"sort"
)

// TOPSISScores ranks the rows of a decision matrix against the ideal and
// anti-ideal alternatives:
//
//  1. normalize each column by its Euclidean norm
//  2. apply the (sum-normalized) weights
//  3. pick ideal/anti-ideal per column by direction
//  4. D+ and D- = row distance to ideal and anti-ideal
//  5. score = D- / (D+ + D-)
//
// Scores land in [0,1]; higher is better. A row equidistant at zero from both
// ideals (single row, or all rows identical) scores 0 rather than NaN, and a
// zero-norm column is left as-is rather than divided to NaN.
func TOPSISScores(matrix [][]float64, weights []float64, directions []Direction) ([]float64, error) {
	rows := len(matrix)
	if rows == 0 {
		return nil, &InvalidInputError{Reason: "decision matrix must not be empty"}
	}
	cols := len(matrix[0])
	if cols == 0 {
		return nil, &InvalidInputError{Reason: "decision matrix must not be empty"}
	}
	for i, row := range matrix {
		if len(row) != cols {
			return nil, &ShapeError{Got: fmt.Sprintf("row %d with %d columns", i, len(row)), Want: fmt.Sprintf("%d columns in every row", cols)}
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &InvalidInputError{Reason: "decision matrix contains a non-finite value"}
			}
		}
	}

	if len(weights) != cols {
		return nil, &ShapeError{Got: fmt.Sprintf("%d weights", len(weights)), Want: fmt.Sprintf("%d, one per column", cols)}
	}
	var weightSum float64
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, &InvalidInputError{Reason: "weights must be non-negative and finite"}
		}
		weightSum += w
	}
	if weightSum <= 0 {
		return nil, &InvalidInputError{Reason: "weights must sum to more than 0"}
	}

	if len(directions) != cols {
		return nil, &ShapeError{Got: fmt.Sprintf("%d directions", len(directions)), Want: fmt.Sprintf("%d, one per column", cols)}
	}
	for _, d := range directions {
		if d != DirectionBenefit && d != DirectionCost {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("direction must be %q or %q, got %q", DirectionBenefit, DirectionCost, d)}
		}
	}

	// Column norms; zero norms divide by 1 so the column stays zero.
	norms := make([]float64, cols)
	for j := 0; j < cols; j++ {
		var sq float64
		for i := 0; i < rows; i++ {
			sq += matrix[i][j] * matrix[i][j]
		}
		norms[j] = math.Sqrt(sq)
		if norms[j] == 0 {
			norms[j] = 1
		}
	}

	weighted := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		weighted[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			weighted[i][j] = matrix[i][j] / norms[j] * (weights[j] / weightSum)
		}
	}

	ideal := make([]float64, cols)
	anti := make([]float64, cols)
	for j := 0; j < cols; j++ {
		lo, hi := weighted[0][j], weighted[0][j]
		for i := 1; i < rows; i++ {
			lo = math.Min(lo, weighted[i][j])
			hi = math.Max(hi, weighted[i][j])
		}
		if directions[j] == DirectionBenefit {
			ideal[j], anti[j] = hi, lo
		} else {
			ideal[j], anti[j] = lo, hi
		}
	}

	scores := make([]float64, rows)
	for i := 0; i < rows; i++ {
		var dPlus, dMinus float64
		for j := 0; j < cols; j++ {
			dp := weighted[i][j] - ideal[j]
			dm := weighted[i][j] - anti[j]
			dPlus += dp * dp
			dMinus += dm * dm
		}
		dPlus = math.Sqrt(dPlus)
		dMinus = math.Sqrt(dMinus)
		if dPlus+dMinus == 0 {
			scores[i] = 0
			continue
		}
		scores[i] = dMinus / (dPlus + dMinus)
	}

	return scores, nil
}

// RankOrder returns row indices sorted by score descending. The sort is
// stable: ties keep their original (catalog) order.
func RankOrder(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}
