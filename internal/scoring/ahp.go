package scoring

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// randomIndex holds Saaty's random consistency index per matrix size. Sizes
// above 10 have no published value here; for those CR is reported as 0.
var randomIndex = map[int]float64{
	1:  0.00,
	2:  0.00,
	3:  0.58,
	4:  0.90,
	5:  1.12,
	6:  1.24,
	7:  1.32,
	8:  1.41,
	9:  1.45,
	10: 1.49,
}

// AHPResult holds the derived criterion weights and the consistency numbers
// of the pairwise matrix they came from.
type AHPResult struct {
	Weights          []float64 `json:"weights"`
	LambdaMax        float64   `json:"lambda_max"`
	ConsistencyIndex float64   `json:"consistency_index"`
	ConsistencyRatio float64   `json:"consistency_ratio"`
}

// Consistent reports whether the consistency ratio is at or below the given
// threshold. The solver itself never rejects an inconsistent matrix; gating
// on this is the caller's call.
func (r *AHPResult) Consistent(threshold float64) bool {
	return r.ConsistencyRatio <= threshold
}

// SolveAHP derives criterion weights from a pairwise comparison matrix using
// the principal eigenvector method:
//
//  1. validate the matrix (ValidationError on any rule violation)
//  2. full eigendecomposition
//  3. take the eigenvalue with the largest real part as lambda max
//  4. weights = |Re(matching eigenvector)|, normalized to sum 1
//  5. CI = (lambda-n)/(n-1) for n>1, CR = CI/RI with RI from randomIndex
//
// CI and CR are clamped at 0 to absorb floating point noise around -0.
func SolveAHP(m [][]float64) (*AHPResult, error) {
	n := len(m)
	if n == 0 {
		return nil, &ShapeError{Got: matrixShape(m), Want: "square matrix (n x n)"}
	}
	for _, row := range m {
		if len(row) != n {
			return nil, &ShapeError{Got: matrixShape(m), Want: fmt.Sprintf("square matrix (%d x %d)", n, n)}
		}
	}
	if violations := ValidatePairwise(m); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	data := make([]float64, 0, n*n)
	for _, row := range m {
		data = append(data, row...)
	}
	dense := mat.NewDense(n, n, data)

	var eig mat.Eigen
	if ok := eig.Factorize(dense, mat.EigenRight); !ok {
		return nil, &InvalidInputError{Reason: "eigendecomposition failed"}
	}

	values := eig.Values(nil)
	principal := 0
	for i, v := range values {
		if real(v) > real(values[principal]) {
			principal = i
		}
	}
	lambdaMax := real(values[principal])

	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	weights := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		weights[i] = math.Abs(real(vectors.At(i, principal)))
		sum += weights[i]
	}
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, &InvalidInputError{Reason: "principal eigenvector is degenerate"}
	}
	for i := range weights {
		weights[i] /= sum
	}

	ci := 0.0
	if n > 1 {
		ci = (lambdaMax - float64(n)) / float64(n-1)
	}
	cr := 0.0
	if ri := randomIndex[n]; ri > 0 {
		cr = ci / ri
	}

	return &AHPResult{
		Weights:          weights,
		LambdaMax:        lambdaMax,
		ConsistencyIndex: math.Max(ci, 0),
		ConsistencyRatio: math.Max(cr, 0),
	}, nil
}

// WeightMap keys an ordered weight vector by the canonical criteria.
func WeightMap(weights []float64) (map[Criterion]float64, error) {
	criteria := Criteria()
	if len(weights) != len(criteria) {
		return nil, &ShapeError{
			Got:  fmt.Sprintf("%d weights", len(weights)),
			Want: fmt.Sprintf("%d, one per criterion", len(criteria)),
		}
	}
	out := make(map[Criterion]float64, len(criteria))
	for i, c := range criteria {
		out[c] = weights[i]
	}
	return out, nil
}

func matrixShape(m [][]float64) string {
	if len(m) == 0 {
		return "empty matrix"
	}
	return fmt.Sprintf("%dx%d", len(m), len(m[0]))
}
