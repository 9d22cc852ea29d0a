package recommender

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/showroomhq/advisor/internal/events"
	"github.com/showroomhq/advisor/internal/metrics"
	"github.com/showroomhq/advisor/internal/scoring"
	"github.com/showroomhq/advisor/internal/store"
)

// Request carries one recommendation run. PairwiseMatrix and the score maps
// are optional; missing pieces fall back to the neutral identity matrix and
// the default category scores.
type Request struct {
	ClientID          string
	Preferences       store.Preferences
	PairwiseMatrix    [][]float64
	FuelScores        map[string]float64
	BodyStyleScores   map[string]float64
	AllowInconsistent bool
	Limit             int
}

// Entry is one ranked vehicle in a recommendation result.
type Entry struct {
	Rank    int            `json:"rank"`
	Score   float64        `json:"score"`
	Vehicle *store.Vehicle `json:"vehicle"`
}

// Result is the full outcome of a recommendation run, including the solved
// criterion weights and the consistency diagnostics behind them.
type Result struct {
	ID               uuid.UUID          `json:"id"`
	Entries          []Entry            `json:"entries"`
	Weights          map[string]float64 `json:"weights"`
	LambdaMax        float64            `json:"lambda_max"`
	ConsistencyIndex float64            `json:"consistency_index"`
	ConsistencyRatio float64            `json:"consistency_ratio"`
	Consistent       bool               `json:"consistent"`
	Threshold        float64            `json:"threshold"`
	Reason           string             `json:"reason"`
	VehicleCount     int                `json:"vehicle_count"`
	DurationMs       float64            `json:"duration_ms"`
	CreatedAt        time.Time          `json:"created_at"`
}

// ConsistencyError reports a pairwise matrix whose consistency ratio exceeds
// the configured threshold. Callers that accept the risk can retry with
// AllowInconsistent set.
type ConsistencyError struct {
	Ratio     float64
	Threshold float64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("pairwise comparisons are inconsistent: consistency ratio %.4f exceeds threshold %.2f", e.Ratio, e.Threshold)
}

// Recommend runs the full pipeline: sanitize and solve the pairwise matrix,
// gate on consistency, score the catalog against the stated preferences and
// persist the outcome.
func (r *Recommender) Recommend(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()

	limit := req.Limit
	if limit <= 0 {
		limit = r.cfg.Recommend.DefaultLimit
	}
	if limit > r.cfg.Recommend.MaxLimit {
		limit = r.cfg.Recommend.MaxLimit
	}

	criteria := scoring.Criteria()
	matrix := req.PairwiseMatrix
	if matrix == nil {
		matrix = scoring.IdentityMatrix(len(criteria))
	}
	if len(matrix) != len(criteria) {
		return nil, &scoring.ShapeError{
			Got:  fmt.Sprintf("%d rows", len(matrix)),
			Want: fmt.Sprintf("%d x %d (one row per criterion)", len(criteria), len(criteria)),
		}
	}

	fuelScores, bodyScores, err := r.scoreMaps(req)
	if err != nil {
		return nil, err
	}

	sanitized, err := scoring.EnforceReciprocity(matrix)
	if err != nil {
		return nil, err
	}

	solved, err := scoring.SolveAHP(sanitized)
	if err != nil {
		return nil, err
	}
	metrics.ConsistencyRatio.Observe(solved.ConsistencyRatio)

	threshold := r.cfg.Recommend.ConsistencyThreshold
	consistent := solved.Consistent(threshold)
	if !consistent && !req.AllowInconsistent {
		metrics.RecommendationsTotal.WithLabelValues("rejected_inconsistent").Inc()
		return nil, &ConsistencyError{Ratio: solved.ConsistencyRatio, Threshold: threshold}
	}

	vehicles, err := r.store.ListVehicles(ctx, store.VehicleFilter{})
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	decision, err := scoring.BuildDistanceMatrix(vehicles, req.Preferences, fuelScores, bodyScores)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	scores, err := scoring.TOPSISScores(decision.Rows, solved.Weights, r.directions)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	order := scoring.RankOrder(scores)

	weightMap, err := scoring.WeightMap(solved.Weights)
	if err != nil {
		return nil, err
	}
	reason := buildReason(weightMap)

	if len(order) > limit {
		order = order[:limit]
	}
	entries := make([]Entry, 0, len(order))
	results := make([]store.RecommendationEntry, 0, len(order))
	for rank, idx := range order {
		v := vehicles[idx]
		entries = append(entries, Entry{Rank: rank + 1, Score: scores[idx], Vehicle: v})
		results = append(results, store.RecommendationEntry{
			VehicleID: v.ID,
			Label:     v.Label(),
			Rank:      rank + 1,
			Score:     scores[idx],
		})
	}

	named := make(map[string]float64, len(weightMap))
	for c, w := range weightMap {
		named[string(c)] = w
	}

	duration := float64(time.Since(started).Microseconds()) / 1000.0
	rec := &store.Recommendation{
		ClientID:         req.ClientID,
		Preferences:      req.Preferences,
		PairwiseMatrix:   sanitized,
		FuelScores:       map[string]float64(fuelScores),
		BodyStyleScores:  map[string]float64(bodyScores),
		Weights:          named,
		LambdaMax:        solved.LambdaMax,
		ConsistencyIndex: solved.ConsistencyIndex,
		ConsistencyRatio: solved.ConsistencyRatio,
		Consistent:       consistent,
		VehicleCount:     len(vehicles),
		Results:          results,
		Reason:           reason,
		DurationMs:       duration,
	}
	if err := r.store.CreateRecommendation(ctx, rec); err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to persist recommendation: %w", err)
	}

	r.publishCompleted(rec, entries)
	metrics.RecommendationsTotal.WithLabelValues("completed").Inc()
	metrics.RecommendationDuration.Observe(time.Since(started).Seconds())

	r.logger.Info("recommendation completed",
		"recommendation_id", rec.ID,
		"client_id", req.ClientID,
		"vehicles", len(vehicles),
		"results", len(entries),
		"consistency_ratio", solved.ConsistencyRatio,
		"consistent", consistent,
		"duration_ms", duration)

	return &Result{
		ID:               rec.ID,
		Entries:          entries,
		Weights:          named,
		LambdaMax:        solved.LambdaMax,
		ConsistencyIndex: solved.ConsistencyIndex,
		ConsistencyRatio: solved.ConsistencyRatio,
		Consistent:       consistent,
		Threshold:        threshold,
		Reason:           reason,
		VehicleCount:     len(vehicles),
		DurationMs:       duration,
		CreatedAt:        rec.CreatedAt,
	}, nil
}

func (r *Recommender) scoreMaps(req Request) (scoring.CategoryScores, scoring.CategoryScores, error) {
	fuelScores := scoring.DefaultFuelScores()
	if req.FuelScores != nil {
		fuelScores = scoring.CategoryScores(req.FuelScores)
		if err := fuelScores.Validate(); err != nil {
			return nil, nil, &scoring.InvalidInputError{Reason: fmt.Sprintf("fuel_scores: %v", err)}
		}
	}
	bodyScores := scoring.DefaultBodyStyleScores()
	if req.BodyStyleScores != nil {
		bodyScores = scoring.CategoryScores(req.BodyStyleScores)
		if err := bodyScores.Validate(); err != nil {
			return nil, nil, &scoring.InvalidInputError{Reason: fmt.Sprintf("body_style_scores: %v", err)}
		}
	}
	return fuelScores, bodyScores, nil
}

func (r *Recommender) publishCompleted(rec *store.Recommendation, entries []Entry) {
	if r.events == nil {
		return
	}
	ev := events.RecommendationCompletedEvent{
		RecommendationID: rec.ID.String(),
		ClientID:         rec.ClientID,
		VehicleCount:     rec.VehicleCount,
		ResultCount:      len(entries),
		ConsistencyRatio: rec.ConsistencyRatio,
		Consistent:       rec.Consistent,
		DurationMs:       rec.DurationMs,
	}
	if len(entries) > 0 {
		ev.TopVehicleID = entries[0].Vehicle.ID.String()
		ev.TopLabel = entries[0].Vehicle.Label()
		ev.TopScore = entries[0].Score
	}
	if err := r.events.Publish(events.SubjectRecommendationCompleted(rec.ID.String()), ev); err != nil {
		r.logger.Error("failed to publish recommendation event", "recommendation_id", rec.ID, "error", err)
	}
}

// buildReason names the two criteria that carried the most weight, so every
// stored recommendation has a human-readable line explaining what drove it.
// Ties keep the canonical criteria order.
func buildReason(weights map[scoring.Criterion]float64) string {
	ranked := scoring.Criteria()
	sort.SliceStable(ranked, func(i, j int) bool { return weights[ranked[i]] > weights[ranked[j]] })
	return fmt.Sprintf("closest match on %s and %s", criterionLabel(ranked[0]), criterionLabel(ranked[1]))
}

func criterionLabel(c scoring.Criterion) string {
	return strings.ReplaceAll(string(c), "_", " ")
}
