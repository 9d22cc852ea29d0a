package api

import (
	"encoding/json"
	"net/http"

	"github.com/showroomhq/advisor/internal/recommender"
)

type WeightsHandler struct {
	rec *recommender.Recommender
}

func NewWeightsHandler(rec *recommender.Recommender) *WeightsHandler {
	return &WeightsHandler{rec: rec}
}

type SolveWeightsRequest struct {
	PairwiseMatrix [][]float64 `json:"pairwise_matrix"`
	Sanitize       *bool       `json:"sanitize,omitempty"`
}

// Solve derives criterion weights from a pairwise matrix. Sanitize defaults
// to true; pass false to see validation errors for the raw matrix instead.
func (h *WeightsHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var req SolveWeightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sanitize := true
	if req.Sanitize != nil {
		sanitize = *req.Sanitize
	}

	result, err := h.rec.SolveWeights(recommender.WeightsRequest{
		PairwiseMatrix: req.PairwiseMatrix,
		Sanitize:       sanitize,
	})
	if err != nil {
		writeScoringError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type SanitizeMatrixRequest struct {
	Matrix [][]float64 `json:"matrix"`
}

// Sanitize previews the reciprocity repair: the violations found in the
// submitted matrix plus the repaired matrix a solve would use.
func (h *WeightsHandler) Sanitize(w http.ResponseWriter, r *http.Request) {
	var req SanitizeMatrixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Matrix == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "matrix required"})
		return
	}

	result, err := h.rec.SanitizeMatrix(req.Matrix)
	if err != nil {
		writeScoringError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Criteria returns the criteria contract clients need to build requests.
func (h *WeightsHandler) Criteria(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.rec.Criteria())
}
