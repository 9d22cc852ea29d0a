package scoring

import (
	"fmt"
	"math"
)

const (
	diagonalTolerance    = 1e-8
	reciprocityTolerance = 1e-6
)

// IdentityMatrix returns the neutral n-by-n pairwise matrix with every
// comparison set to 1: all criteria equally important.
func IdentityMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		row := make([]float64, n)
		for j := range row {
			row[j] = 1
		}
		m[i] = row
	}
	return m
}

// ValidatePairwise checks a pairwise comparison matrix and returns every rule
// violation found. A nil, empty, or non-square matrix is fatal: it returns a
// single shape violation and the per-cell rules are not evaluated at all.
//
// Rules, each contributing at most one violation:
//   - all entries positive and finite
//   - diagonal entries equal to 1 (within 1e-8)
//   - reciprocity a_ij = 1/a_ji (within 1e-6)
func ValidatePairwise(m [][]float64) []string {
	n := len(m)
	if n == 0 {
		return []string{"matrix must be square (n x n)"}
	}
	for _, row := range m {
		if len(row) != n {
			return []string{"matrix must be square (n x n)"}
		}
	}

	var violations []string

	positive := true
	for i := 0; i < n && positive; i++ {
		for j := 0; j < n; j++ {
			v := m[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				positive = false
				break
			}
		}
	}
	if !positive {
		violations = append(violations, "all entries must be positive and finite")
	}

	diagonal := true
	for i := 0; i < n; i++ {
		if !(math.Abs(m[i][i]-1) <= diagonalTolerance) {
			diagonal = false
			break
		}
	}
	if !diagonal {
		violations = append(violations, "diagonal entries must equal 1")
	}

	reciprocal := true
	for i := 0; i < n && reciprocal; i++ {
		for j := 0; j < n; j++ {
			v := m[j][i]
			if v == 0 {
				// Reciprocal undefined; the positivity rule already fired.
				reciprocal = false
				break
			}
			// Negated <= so NaN cells count as violations.
			if !(math.Abs(m[i][j]-1/v) <= reciprocityTolerance) {
				reciprocal = false
				break
			}
		}
	}
	if !reciprocal {
		violations = append(violations, "matrix must be reciprocal: a_ij = 1/a_ji")
	}

	return violations
}

// EnforceReciprocity repairs a square pairwise matrix so it always passes
// ValidatePairwise: the diagonal is forced to 1, upper-triangle entries that
// are not finite and positive become 1, and each lower-triangle entry is the
// exact reciprocal of its upper mirror. The repair is idempotent and never
// fails on square input; the input matrix is left untouched.
func EnforceReciprocity(m [][]float64) ([][]float64, error) {
	n := len(m)
	if n == 0 {
		return nil, &ShapeError{Got: "empty matrix", Want: "square matrix (n x n)"}
	}
	for i, row := range m {
		if len(row) != n {
			return nil, &ShapeError{Got: fmt.Sprintf("row %d with %d columns", i, len(row)), Want: fmt.Sprintf("square matrix (%d x %d)", n, n)}
		}
	}

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		out[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := m[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				v = 1
			}
			out[i][j] = v
			out[j][i] = 1 / v
		}
	}
	return out, nil
}
