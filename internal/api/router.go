package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/showroomhq/advisor/internal/events"
	"github.com/showroomhq/advisor/internal/recommender"
	"github.com/showroomhq/advisor/internal/store"
)

type RouterConfig struct {
	AdminToken           string
	RateLimit            int
	ConsistencyThreshold float64
}

func NewRouter(s store.Store, ev events.Client, rec *recommender.Recommender, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.RateLimit))

	recommendations := NewRecommendationsHandler(s, rec)
	weights := NewWeightsHandler(rec)
	vehicles := NewVehiclesHandler(s, ev)
	explain := NewExplainHandler(s, cfg.ConsistencyThreshold)
	admin := NewAdminHandler(s, rec)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ClientIDMiddleware)

		r.Post("/recommendations", recommendations.Create)
		r.Get("/recommendations", recommendations.List)
		r.Get("/recommendations/{id}", recommendations.Get)
		r.Get("/recommendations/{id}/explain", explain.Explain)

		r.Post("/weights", weights.Solve)
		r.Post("/matrix/sanitize", weights.Sanitize)
		r.Get("/criteria", weights.Criteria)

		r.Get("/vehicles", vehicles.List)
		r.Get("/vehicles/{id}", vehicles.Get)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminToken))
			r.Get("/stats", admin.Stats)
			r.Post("/vehicles", vehicles.Create)
			r.Delete("/vehicles/{id}", vehicles.Delete)
			r.Post("/catalog/sync", admin.CatalogSync)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
