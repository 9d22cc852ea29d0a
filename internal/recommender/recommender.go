package recommender

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/showroomhq/advisor/internal/config"
	"github.com/showroomhq/advisor/internal/events"
	"github.com/showroomhq/advisor/internal/inventory"
	"github.com/showroomhq/advisor/internal/metrics"
	"github.com/showroomhq/advisor/internal/scoring"
	"github.com/showroomhq/advisor/internal/store"
)

// Recommender runs the recommendation pipeline and owns the background
// bookkeeping: periodic stats publishing and, when an inventory service is
// configured, periodic catalog sync.
type Recommender struct {
	store      store.Store
	events     events.Client
	inventory  inventory.Client
	cfg        *config.Config
	logger     *slog.Logger
	directions []scoring.Direction

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, ev events.Client, inv inventory.Client, cfg *config.Config, logger *slog.Logger) *Recommender {
	return &Recommender{
		store:      s,
		events:     ev,
		inventory:  inv,
		cfg:        cfg,
		logger:     logger,
		directions: cfg.Directions(),
		stopCh:     make(chan struct{}),
	}
}

func (r *Recommender) Start(ctx context.Context) {
	if r.cfg.StatsInterval() > 0 {
		r.wg.Add(1)
		go r.statsLoop(ctx)
	}
	if r.inventory != nil && r.cfg.SyncInterval() > 0 {
		r.wg.Add(1)
		go r.syncLoop(ctx)
	}
}

func (r *Recommender) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

func (r *Recommender) statsLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.StatsInterval())
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.publishStats(ctx)
		}
	}
}

func (r *Recommender) publishStats(ctx context.Context) {
	stats, err := r.store.GetStats(ctx)
	if err != nil {
		r.logger.Error("failed to collect stats", "error", err)
		return
	}
	metrics.CatalogVehicles.Set(float64(stats.TotalVehicles))

	if r.events == nil {
		return
	}
	_ = r.events.Publish(events.SubjectStats, events.StatsEvent{
		Vehicles:        stats.TotalVehicles,
		Recommendations: stats.TotalRecommendations,
		Inconsistent:    stats.InconsistentRecommendations,
		AvgDurationMs:   stats.AvgDurationMs,
		Timestamp:       time.Now(),
	})
}

func (r *Recommender) syncLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.SyncInterval())
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.SyncCatalog(ctx); err != nil {
				r.logger.Error("scheduled catalog sync failed", "error", err)
			}
		}
	}
}
