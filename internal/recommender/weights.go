package recommender

import (
	"fmt"
	"strconv"

	"github.com/showroomhq/advisor/internal/metrics"
	"github.com/showroomhq/advisor/internal/scoring"
)

// WeightsRequest asks for criterion weights from a pairwise matrix without
// running a full recommendation. Sanitize repairs reciprocity before solving;
// with it off, a malformed matrix surfaces its violations instead.
type WeightsRequest struct {
	PairwiseMatrix [][]float64
	Sanitize       bool
}

// WeightsResult reports the solved weights and consistency diagnostics.
type WeightsResult struct {
	Weights          map[string]float64 `json:"weights"`
	LambdaMax        float64            `json:"lambda_max"`
	ConsistencyIndex float64            `json:"consistency_index"`
	ConsistencyRatio float64            `json:"consistency_ratio"`
	Consistent       bool               `json:"consistent"`
	Threshold        float64            `json:"threshold"`
}

// SanitizeResult pairs the violations found in a submitted matrix with the
// repaired matrix that would actually be solved.
type SanitizeResult struct {
	Violations []string    `json:"violations"`
	Matrix     [][]float64 `json:"matrix"`
}

// SolveWeights solves criterion weights for the canonical criteria set.
func (r *Recommender) SolveWeights(req WeightsRequest) (*WeightsResult, error) {
	if req.PairwiseMatrix == nil {
		return nil, &scoring.InvalidInputError{Reason: "pairwise_matrix is required"}
	}
	criteria := scoring.Criteria()
	if len(req.PairwiseMatrix) != len(criteria) {
		return nil, &scoring.ShapeError{
			Got:  fmt.Sprintf("%d rows", len(req.PairwiseMatrix)),
			Want: fmt.Sprintf("%d x %d (one row per criterion)", len(criteria), len(criteria)),
		}
	}

	matrix := req.PairwiseMatrix
	if req.Sanitize {
		repaired, err := scoring.EnforceReciprocity(matrix)
		if err != nil {
			return nil, err
		}
		matrix = repaired
	}

	solved, err := scoring.SolveAHP(matrix)
	if err != nil {
		return nil, err
	}

	threshold := r.cfg.Recommend.ConsistencyThreshold
	consistent := solved.Consistent(threshold)
	metrics.WeightSolvesTotal.WithLabelValues(strconv.FormatBool(consistent)).Inc()
	metrics.ConsistencyRatio.Observe(solved.ConsistencyRatio)

	weightMap, err := scoring.WeightMap(solved.Weights)
	if err != nil {
		return nil, err
	}
	named := make(map[string]float64, len(weightMap))
	for c, w := range weightMap {
		named[string(c)] = w
	}

	return &WeightsResult{
		Weights:          named,
		LambdaMax:        solved.LambdaMax,
		ConsistencyIndex: solved.ConsistencyIndex,
		ConsistencyRatio: solved.ConsistencyRatio,
		Consistent:       consistent,
		Threshold:        threshold,
	}, nil
}

// CriterionInfo describes one scoring criterion for clients building a
// pairwise matrix, including the category score map for categorical ones.
type CriterionInfo struct {
	Name        string             `json:"name"`
	Direction   string             `json:"direction"`
	Categorical bool               `json:"categorical"`
	Categories  map[string]float64 `json:"categories,omitempty"`
}

// CriteriaInfo is the full criteria contract: ordered criteria, default
// category scores and the consistency threshold in effect.
type CriteriaInfo struct {
	Criteria             []CriterionInfo `json:"criteria"`
	ConsistencyThreshold float64         `json:"consistency_threshold"`
}

// Criteria reports the criteria contract in canonical order.
func (r *Recommender) Criteria() *CriteriaInfo {
	info := &CriteriaInfo{ConsistencyThreshold: r.cfg.Recommend.ConsistencyThreshold}
	for i, c := range scoring.Criteria() {
		ci := CriterionInfo{
			Name:        string(c),
			Direction:   string(r.directions[i]),
			Categorical: c.Categorical(),
		}
		switch c {
		case scoring.CriterionFuelType:
			ci.Categories = scoring.DefaultFuelScores()
		case scoring.CriterionBodyStyle:
			ci.Categories = scoring.DefaultBodyStyleScores()
		}
		info.Criteria = append(info.Criteria, ci)
	}
	return info
}

// SanitizeMatrix reports what is wrong with a submitted matrix and returns
// the repaired form. The repair never fails for square input, so callers can
// always preview what a sanitized solve would use.
func (r *Recommender) SanitizeMatrix(matrix [][]float64) (*SanitizeResult, error) {
	repaired, err := scoring.EnforceReciprocity(matrix)
	if err != nil {
		return nil, err
	}
	violations := scoring.ValidatePairwise(matrix)
	if violations == nil {
		violations = []string{}
	}
	return &SanitizeResult{Violations: violations, Matrix: repaired}, nil
}
