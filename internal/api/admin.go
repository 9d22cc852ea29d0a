package api

import (
	"errors"
	"net/http"

	"github.com/showroomhq/advisor/internal/recommender"
	"github.com/showroomhq/advisor/internal/store"
)

type AdminHandler struct {
	store store.Store
	rec   *recommender.Recommender
}

func NewAdminHandler(s store.Store, rec *recommender.Recommender) *AdminHandler {
	return &AdminHandler{store: s, rec: rec}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CatalogSync triggers an immediate inventory pull instead of waiting for the
// next scheduled run.
func (h *AdminHandler) CatalogSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.rec.SyncCatalog(r.Context())
	if err != nil {
		if errors.Is(err, recommender.ErrNoInventory) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
