package recommender

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/showroomhq/advisor/internal/events"
	"github.com/showroomhq/advisor/internal/inventory"
	"github.com/showroomhq/advisor/internal/metrics"
	"github.com/showroomhq/advisor/internal/scoring"
	"github.com/showroomhq/advisor/internal/store"
)

// ErrNoInventory is returned by SyncCatalog when no inventory service is
// configured.
var ErrNoInventory = errors.New("inventory service not configured")

// SyncResult summarizes one catalog sync run.
type SyncResult struct {
	Fetched  int `json:"fetched"`
	Skipped  int `json:"skipped"`
	Inserted int `json:"inserted"`
}

// SyncCatalog replaces the local catalog with the inventory service's current
// vehicle list. Records with unknown fuel or body style labels, or broken
// numeric fields, are skipped rather than poisoning the scoring pipeline.
func (r *Recommender) SyncCatalog(ctx context.Context) (*SyncResult, error) {
	if r.inventory == nil {
		return nil, ErrNoInventory
	}

	upstream, err := r.inventory.FetchVehicles(ctx)
	if err != nil {
		metrics.CatalogSyncsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}

	fuelScores := scoring.DefaultFuelScores()
	bodyScores := scoring.DefaultBodyStyleScores()

	vehicles := make([]*store.Vehicle, 0, len(upstream))
	skipped := 0
	for _, u := range upstream {
		if err := validateUpstream(u, fuelScores, bodyScores); err != nil {
			skipped++
			r.logger.Warn("skipping inventory record", "make", u.Make, "model", u.Model, "error", err)
			continue
		}
		vehicles = append(vehicles, &store.Vehicle{
			Make:       u.Make,
			Model:      u.Model,
			Year:       u.Year,
			FuelType:   u.FuelType,
			Horsepower: u.Horsepower,
			DoorCount:  u.DoorCount,
			BodyStyle:  u.BodyStyle,
		})
	}

	inserted, err := r.store.ReplaceVehicles(ctx, vehicles)
	if err != nil {
		metrics.CatalogSyncsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to replace catalog: %w", err)
	}

	metrics.CatalogSyncsTotal.WithLabelValues("completed").Inc()
	metrics.CatalogVehicles.Set(float64(inserted))

	if r.events != nil {
		_ = r.events.Publish(events.SubjectCatalogSynced(), events.CatalogSyncedEvent{
			VehicleCount: inserted,
			Source:       "inventory",
		})
	}

	r.logger.Info("catalog synced", "fetched", len(upstream), "skipped", skipped, "inserted", inserted)
	return &SyncResult{Fetched: len(upstream), Skipped: skipped, Inserted: inserted}, nil
}

func validateUpstream(u inventory.Vehicle, fuelScores, bodyScores scoring.CategoryScores) error {
	if u.Make == "" || u.Model == "" {
		return fmt.Errorf("missing make or model")
	}
	if _, ok := fuelScores[u.FuelType]; !ok {
		return &scoring.UnknownCategoryError{Criterion: scoring.CriterionFuelType, Value: u.FuelType}
	}
	if _, ok := bodyScores[u.BodyStyle]; !ok {
		return &scoring.UnknownCategoryError{Criterion: scoring.CriterionBodyStyle, Value: u.BodyStyle}
	}
	if math.IsNaN(u.Horsepower) || math.IsInf(u.Horsepower, 0) || u.Horsepower <= 0 {
		return fmt.Errorf("horsepower must be positive and finite, got %v", u.Horsepower)
	}
	if u.DoorCount <= 0 {
		return fmt.Errorf("door count must be positive, got %d", u.DoorCount)
	}
	return nil
}
