package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/showroomhq/advisor/internal/events"
	"github.com/showroomhq/advisor/internal/metrics"
	"github.com/showroomhq/advisor/internal/scoring"
	"github.com/showroomhq/advisor/internal/store"
)

type VehiclesHandler struct {
	store  store.Store
	events events.Client
}

func NewVehiclesHandler(s store.Store, ev events.Client) *VehiclesHandler {
	return &VehiclesHandler{store: s, events: ev}
}

func (h *VehiclesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.VehicleFilter{
		FuelType:  r.URL.Query().Get("fuel_type"),
		BodyStyle: r.URL.Query().Get("body_style"),
	}
	if v := r.URL.Query().Get("min_horsepower"); v != "" {
		hp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid min_horsepower"})
			return
		}
		filter.MinHorsepower = &hp
	}
	if v := r.URL.Query().Get("max_horsepower"); v != "" {
		hp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid max_horsepower"})
			return
		}
		filter.MaxHorsepower = &hp
	}
	if v := r.URL.Query().Get("door_count"); v != "" {
		doors, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid door_count"})
			return
		}
		filter.DoorCount = &doors
	}
	if v := r.URL.Query().Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
			return
		}
		filter.Year = &year
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid offset"})
			return
		}
		filter.Offset = offset
	}

	vehicles, err := h.store.ListVehicles(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if vehicles == nil {
		vehicles = []*store.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehiclesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vehicle id"})
		return
	}

	vehicle, err := h.store.GetVehicle(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if vehicle == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "vehicle not found"})
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

type CreateVehicleRequest struct {
	Make       string  `json:"make"`
	Model      string  `json:"model"`
	Year       int     `json:"year"`
	FuelType   string  `json:"fuel_type"`
	Horsepower float64 `json:"horsepower"`
	DoorCount  int     `json:"door_count"`
	BodyStyle  string  `json:"body_style"`
}

// Create adds one vehicle to the catalog. Labels are checked against the
// stock category scales so a typo cannot poison the scoring pipeline.
func (h *VehiclesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Make == "" || req.Model == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "make and model required"})
		return
	}
	if _, ok := scoring.DefaultFuelScores()[req.FuelType]; !ok {
		writeScoringError(w, &scoring.UnknownCategoryError{Criterion: scoring.CriterionFuelType, Value: req.FuelType})
		return
	}
	if _, ok := scoring.DefaultBodyStyleScores()[req.BodyStyle]; !ok {
		writeScoringError(w, &scoring.UnknownCategoryError{Criterion: scoring.CriterionBodyStyle, Value: req.BodyStyle})
		return
	}
	if req.Horsepower <= 0 || req.DoorCount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "horsepower and door_count must be positive"})
		return
	}

	vehicle := &store.Vehicle{
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		FuelType:   req.FuelType,
		Horsepower: req.Horsepower,
		DoorCount:  req.DoorCount,
		BodyStyle:  req.BodyStyle,
	}
	if err := h.store.CreateVehicle(r.Context(), vehicle); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.refreshCatalogGauge(r)
	if h.events != nil {
		_ = h.events.Publish(events.SubjectCatalogChanged(), events.CatalogChangedEvent{
			VehicleID: vehicle.ID.String(),
			Change:    "added",
		})
	}

	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *VehiclesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vehicle id"})
		return
	}

	vehicle, err := h.store.GetVehicle(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if vehicle == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "vehicle not found"})
		return
	}

	if err := h.store.DeleteVehicle(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.refreshCatalogGauge(r)
	if h.events != nil {
		_ = h.events.Publish(events.SubjectCatalogChanged(), events.CatalogChangedEvent{
			VehicleID: id.String(),
			Change:    "removed",
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *VehiclesHandler) refreshCatalogGauge(r *http.Request) {
	if count, err := h.store.CountVehicles(r.Context()); err == nil {
		metrics.CatalogVehicles.Set(float64(count))
	}
}
