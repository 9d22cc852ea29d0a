package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/showroomhq/advisor/internal/store"
)

type ExplainHandler struct {
	store     store.Store
	threshold float64
}

func NewExplainHandler(s store.Store, threshold float64) *ExplainHandler {
	return &ExplainHandler{store: s, threshold: threshold}
}

// Explain returns the full decision trail behind a stored recommendation.
// GET /api/v1/recommendations/{id}/explain
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid recommendation id"})
		return
	}

	rec, err := h.store.GetRecommendation(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recommendation not found"})
		return
	}

	type weightEntry struct {
		Criterion string  `json:"criterion"`
		Weight    float64 `json:"weight"`
	}
	weights := make([]weightEntry, 0, len(rec.Weights))
	for c, v := range rec.Weights {
		weights = append(weights, weightEntry{Criterion: c, Weight: v})
	}
	sort.Slice(weights, func(i, j int) bool {
		if weights[i].Weight != weights[j].Weight {
			return weights[i].Weight > weights[j].Weight
		}
		return weights[i].Criterion < weights[j].Criterion
	})

	resp := map[string]interface{}{
		"recommendation_id": rec.ID,
		"preferences":       rec.Preferences,
		"pairwise_matrix":   rec.PairwiseMatrix,
		"weights":           weights,
		"lambda_max":        rec.LambdaMax,
		"consistency_index": rec.ConsistencyIndex,
		"consistency_ratio": rec.ConsistencyRatio,
		"consistent":        rec.Consistent,
		"threshold":         h.threshold,
		"vehicle_count":     rec.VehicleCount,
		"results":           rec.Results,
		"reason":            rec.Reason,
	}
	if rec.FuelScores != nil {
		resp["fuel_scores"] = rec.FuelScores
	}
	if rec.BodyStyleScores != nil {
		resp["body_style_scores"] = rec.BodyStyleScores
	}

	writeJSON(w, http.StatusOK, resp)
}
