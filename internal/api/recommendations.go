package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/showroomhq/advisor/internal/recommender"
	"github.com/showroomhq/advisor/internal/scoring"
	"github.com/showroomhq/advisor/internal/store"
)

type RecommendationsHandler struct {
	store store.Store
	rec   *recommender.Recommender
}

func NewRecommendationsHandler(s store.Store, rec *recommender.Recommender) *RecommendationsHandler {
	return &RecommendationsHandler{store: s, rec: rec}
}

type CreateRecommendationRequest struct {
	Preferences       store.Preferences  `json:"preferences"`
	PairwiseMatrix    [][]float64        `json:"pairwise_matrix,omitempty"`
	FuelScores        map[string]float64 `json:"fuel_scores,omitempty"`
	BodyStyleScores   map[string]float64 `json:"body_style_scores,omitempty"`
	AllowInconsistent bool               `json:"allow_inconsistent,omitempty"`
	Limit             int                `json:"limit,omitempty"`
}

func (h *RecommendationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Preferences.FuelType == "" || req.Preferences.BodyStyle == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "preferences.fuel_type and preferences.body_style required"})
		return
	}
	if req.Preferences.Horsepower <= 0 || req.Preferences.DoorCount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "preferences.horsepower and preferences.door_count must be positive"})
		return
	}

	result, err := h.rec.Recommend(r.Context(), recommender.Request{
		ClientID:          r.Header.Get("X-Client-ID"),
		Preferences:       req.Preferences,
		PairwiseMatrix:    req.PairwiseMatrix,
		FuelScores:        req.FuelScores,
		BodyStyleScores:   req.BodyStyleScores,
		AllowInconsistent: req.AllowInconsistent,
		Limit:             req.Limit,
	})
	if err != nil {
		writeScoringError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *RecommendationsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.RecommendationFilter{
		ClientID: r.URL.Query().Get("client_id"),
	}
	if c := r.URL.Query().Get("consistent"); c != "" {
		consistent, err := strconv.ParseBool(c)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid consistent filter"})
			return
		}
		filter.Consistent = &consistent
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		offset, err := strconv.Atoi(o)
		if err != nil || offset < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid offset"})
			return
		}
		filter.Offset = offset
	}

	recs, err := h.store.ListRecommendations(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if recs == nil {
		recs = []*store.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *RecommendationsHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, rec)
}

// writeScoringError maps pipeline errors onto HTTP statuses: malformed input
// is the client's fault, an inconsistent matrix is a 422 the client can
// override, anything else is a server error.
func writeScoringError(w http.ResponseWriter, err error) {
	var shapeErr *scoring.ShapeError
	if errors.As(err, &shapeErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": shapeErr.Error(), "kind": "shape"})
		return
	}
	var validationErr *scoring.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":      validationErr.Error(),
			"kind":       "validation",
			"violations": validationErr.Violations,
		})
		return
	}
	var categoryErr *scoring.UnknownCategoryError
	if errors.As(err, &categoryErr) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":     categoryErr.Error(),
			"kind":      "unknown_category",
			"criterion": string(categoryErr.Criterion),
			"value":     categoryErr.Value,
		})
		return
	}
	var inputErr *scoring.InvalidInputError
	if errors.As(err, &inputErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": inputErr.Error(), "kind": "invalid_input"})
		return
	}
	var consistencyErr *recommender.ConsistencyError
	if errors.As(err, &consistencyErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":             consistencyErr.Error(),
			"kind":              "inconsistent",
			"consistency_ratio": consistencyErr.Ratio,
			"threshold":         consistencyErr.Threshold,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
