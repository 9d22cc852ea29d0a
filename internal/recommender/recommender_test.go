package recommender

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/showroomhq/advisor/internal/config"
	"github.com/showroomhq/advisor/internal/inventory"
	"github.com/showroomhq/advisor/internal/scoring"
	"github.com/showroomhq/advisor/internal/store"
)

// Mock implementations

type mockStore struct {
	vehicles []*store.Vehicle
	recs     []*store.Recommendation
	listErr  error
}

func (m *mockStore) CreateVehicle(_ context.Context, v *store.Vehicle) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	m.vehicles = append(m.vehicles, v)
	return nil
}
func (m *mockStore) GetVehicle(_ context.Context, id uuid.UUID) (*store.Vehicle, error) {
	for _, v := range m.vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}
func (m *mockStore) ListVehicles(_ context.Context, _ store.VehicleFilter) ([]*store.Vehicle, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.vehicles, nil
}
func (m *mockStore) DeleteVehicle(_ context.Context, id uuid.UUID) error {
	for i, v := range m.vehicles {
		if v.ID == id {
			m.vehicles = append(m.vehicles[:i], m.vehicles[i+1:]...)
			return nil
		}
	}
	return nil
}
func (m *mockStore) ReplaceVehicles(_ context.Context, vehicles []*store.Vehicle) (int, error) {
	for _, v := range vehicles {
		v.ID = uuid.New()
	}
	m.vehicles = vehicles
	return len(vehicles), nil
}
func (m *mockStore) CountVehicles(_ context.Context) (int, error) {
	return len(m.vehicles), nil
}
func (m *mockStore) CreateRecommendation(_ context.Context, rec *store.Recommendation) error {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	m.recs = append(m.recs, rec)
	return nil
}
func (m *mockStore) GetRecommendation(_ context.Context, id uuid.UUID) (*store.Recommendation, error) {
	for _, r := range m.recs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}
func (m *mockStore) ListRecommendations(_ context.Context, _ store.RecommendationFilter) ([]*store.Recommendation, error) {
	return m.recs, nil
}
func (m *mockStore) GetStats(_ context.Context) (*store.Stats, error) {
	inconsistent := 0
	for _, r := range m.recs {
		if !r.Consistent {
			inconsistent++
		}
	}
	return &store.Stats{
		TotalVehicles:               len(m.vehicles),
		TotalRecommendations:        len(m.recs),
		InconsistentRecommendations: inconsistent,
	}, nil
}
func (m *mockStore) Close() error { return nil }

type mockEvents struct {
	published []struct {
		subject string
		data    interface{}
	}
}

func (m *mockEvents) Publish(subject string, data interface{}) error {
	m.published = append(m.published, struct {
		subject string
		data    interface{}
	}{subject, data})
	return nil
}
func (m *mockEvents) Subscribe(_ string, _ func(string, []byte)) error { return nil }
func (m *mockEvents) Close()                                           {}

type mockInventory struct {
	vehicles []inventory.Vehicle
	err      error
}

func (m *mockInventory) FetchVehicles(_ context.Context) ([]inventory.Vehicle, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vehicles, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Recommend: config.RecommendConfig{
			ConsistencyThreshold: 0.10,
			DefaultLimit:         10,
			MaxLimit:             50,
			StatsIntervalMs:      60000,
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedVehicles(ms *mockStore) {
	ctx := context.Background()
	_ = ms.CreateVehicle(ctx, &store.Vehicle{Make: "Renault", Model: "Clio", Year: 2021, FuelType: "benzin", Horsepower: 90, DoorCount: 4, BodyStyle: "hb"})
	_ = ms.CreateVehicle(ctx, &store.Vehicle{Make: "Toyota", Model: "Corolla", Year: 2022, FuelType: "hibrit", Horsepower: 140, DoorCount: 4, BodyStyle: "sedan"})
	_ = ms.CreateVehicle(ctx, &store.Vehicle{Make: "Tesla", Model: "Model 3", Year: 2023, FuelType: "elektrik", Horsepower: 283, DoorCount: 4, BodyStyle: "sedan"})
}

// A reciprocal matrix built from cyclic judgments: every pair contradicts the
// rest, so the consistency ratio lands far above any sane threshold.
func inconsistentMatrix() [][]float64 {
	return [][]float64{
		{1, 9, 1.0 / 9, 9},
		{1.0 / 9, 1, 9, 1.0 / 9},
		{9, 1.0 / 9, 1, 9},
		{1.0 / 9, 9, 1.0 / 9, 1},
	}
}

func TestRecommendDefaultIdentityMatrix(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	me := &mockEvents{}
	r := New(ms, me, nil, testConfig(), discardLogger())

	result, err := r.Recommend(context.Background(), Request{
		ClientID:    "showroom-web",
		Preferences: store.Preferences{FuelType: "hibrit", Horsepower: 140, DoorCount: 4, BodyStyle: "sedan"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for c, w := range result.Weights {
		if math.Abs(w-0.25) > 1e-9 {
			t.Errorf("weight %s: expected 0.25 from identity matrix, got %f", c, w)
		}
	}
	if !result.Consistent {
		t.Error("identity matrix must be consistent")
	}
	if result.VehicleCount != 3 {
		t.Errorf("expected 3 vehicles scored, got %d", result.VehicleCount)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result.Entries))
	}

	// The Corolla matches the stated preferences exactly.
	if result.Entries[0].Vehicle.Model != "Corolla" {
		t.Errorf("expected Corolla first, got %s", result.Entries[0].Vehicle.Model)
	}
	for i, e := range result.Entries {
		if e.Rank != i+1 {
			t.Errorf("entry %d: expected rank %d, got %d", i, i+1, e.Rank)
		}
		if e.Score < 0 || e.Score > 1 {
			t.Errorf("entry %d: score out of [0,1]: %f", i, e.Score)
		}
		if i > 0 && e.Score > result.Entries[i-1].Score {
			t.Errorf("entries must be sorted by score descending, got %v then %v", result.Entries[i-1].Score, e.Score)
		}
	}
}

func TestRecommendPersistsAndPublishes(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	me := &mockEvents{}
	r := New(ms, me, nil, testConfig(), discardLogger())

	result, err := r.Recommend(context.Background(), Request{
		ClientID:    "showroom-web",
		Preferences: store.Preferences{FuelType: "elektrik", Horsepower: 250, DoorCount: 4, BodyStyle: "sedan"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ms.recs) != 1 {
		t.Fatalf("expected 1 persisted recommendation, got %d", len(ms.recs))
	}
	rec := ms.recs[0]
	if rec.ID != result.ID {
		t.Errorf("result ID %s does not match persisted %s", result.ID, rec.ID)
	}
	if rec.ClientID != "showroom-web" {
		t.Errorf("expected client id persisted, got %q", rec.ClientID)
	}
	if len(rec.Results) != len(result.Entries) {
		t.Errorf("expected %d persisted results, got %d", len(result.Entries), len(rec.Results))
	}
	if violations := scoring.ValidatePairwise(rec.PairwiseMatrix); len(violations) != 0 {
		t.Errorf("persisted matrix must be the sanitized form, got violations %v", violations)
	}

	if len(me.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(me.published))
	}
	subject := me.published[0].subject
	if !strings.HasPrefix(subject, "advisor.recommendation.") || !strings.HasSuffix(subject, ".completed") {
		t.Errorf("unexpected event subject %q", subject)
	}
}

func TestRecommendConsistencyGate(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	me := &mockEvents{}
	r := New(ms, me, nil, testConfig(), discardLogger())

	_, err := r.Recommend(context.Background(), Request{
		Preferences:    store.Preferences{FuelType: "benzin", Horsepower: 100, DoorCount: 4, BodyStyle: "hb"},
		PairwiseMatrix: inconsistentMatrix(),
	})

	var consistencyErr *ConsistencyError
	if !errors.As(err, &consistencyErr) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
	if consistencyErr.Ratio <= 0.10 {
		t.Errorf("expected ratio above threshold, got %f", consistencyErr.Ratio)
	}
	if consistencyErr.Threshold != 0.10 {
		t.Errorf("expected threshold 0.10, got %f", consistencyErr.Threshold)
	}
	if len(ms.recs) != 0 {
		t.Error("rejected runs must not be persisted")
	}
	if len(me.published) != 0 {
		t.Error("rejected runs must not publish events")
	}
}

func TestRecommendAllowInconsistent(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	r := New(ms, nil, nil, testConfig(), discardLogger())

	result, err := r.Recommend(context.Background(), Request{
		Preferences:       store.Preferences{FuelType: "benzin", Horsepower: 100, DoorCount: 4, BodyStyle: "hb"},
		PairwiseMatrix:    inconsistentMatrix(),
		AllowInconsistent: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Consistent {
		t.Error("expected Consistent false")
	}
	if result.ConsistencyRatio <= 0.10 {
		t.Errorf("expected CR above threshold, got %f", result.ConsistencyRatio)
	}
	if len(ms.recs) != 1 || ms.recs[0].Consistent {
		t.Error("expected the run persisted with Consistent false")
	}
}

func TestRecommendLimit(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	seedVehicles(ms)
	r := New(ms, nil, nil, testConfig(), discardLogger())

	result, err := r.Recommend(context.Background(), Request{
		Preferences: store.Preferences{FuelType: "benzin", Horsepower: 100, DoorCount: 4, BodyStyle: "hb"},
		Limit:       2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.VehicleCount != 6 {
		t.Errorf("expected all 6 vehicles scored, got %d", result.VehicleCount)
	}
}

func TestRecommendLimitCapped(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	cfg := testConfig()
	cfg.Recommend.MaxLimit = 2
	r := New(ms, nil, nil, cfg, discardLogger())

	result, err := r.Recommend(context.Background(), Request{
		Preferences: store.Preferences{FuelType: "benzin", Horsepower: 100, DoorCount: 4, BodyStyle: "hb"},
		Limit:       100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Errorf("expected limit capped at 2, got %d entries", len(result.Entries))
	}
}

func TestRecommendUnknownPreferenceCategory(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	r := New(ms, nil, nil, testConfig(), discardLogger())

	_, err := r.Recommend(context.Background(), Request{
		Preferences: store.Preferences{FuelType: "lpg", Horsepower: 100, DoorCount: 4, BodyStyle: "hb"},
	})
	var categoryErr *scoring.UnknownCategoryError
	if !errors.As(err, &categoryErr) {
		t.Fatalf("expected UnknownCategoryError, got %v", err)
	}
	if len(ms.recs) != 0 {
		t.Error("failed runs must not be persisted")
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	r := New(&mockStore{}, nil, nil, testConfig(), discardLogger())

	_, err := r.Recommend(context.Background(), Request{
		Preferences: store.Preferences{FuelType: "benzin", Horsepower: 100, DoorCount: 4, BodyStyle: "hb"},
	})
	var inputErr *scoring.InvalidInputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestRecommendWrongMatrixSize(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	r := New(ms, nil, nil, testConfig(), discardLogger())

	_, err := r.Recommend(context.Background(), Request{
		Preferences:    store.Preferences{FuelType: "benzin", Horsepower: 100, DoorCount: 4, BodyStyle: "hb"},
		PairwiseMatrix: scoring.IdentityMatrix(3),
	})
	var shapeErr *scoring.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
}

func TestRecommendSanitizesMatrix(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	r := New(ms, nil, nil, testConfig(), discardLogger())

	// Broken diagonal and garbage mirrors; the upper triangle is coherent, so
	// the repaired matrix solves cleanly.
	matrix := [][]float64{
		{1, 2, 4, 8},
		{99, 0, 2, 4},
		{0, -5, 1, 2},
		{math.NaN(), 42, 7, 1},
	}
	result, err := r.Recommend(context.Background(), Request{
		Preferences:    store.Preferences{FuelType: "benzin", Horsepower: 100, DoorCount: 4, BodyStyle: "hb"},
		PairwiseMatrix: matrix,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Consistent {
		t.Errorf("repaired matrix is perfectly coherent, got CR %f", result.ConsistencyRatio)
	}
	var sum float64
	for _, w := range result.Weights {
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("expected normalized weights, got sum %f", sum)
	}
	if violations := scoring.ValidatePairwise(ms.recs[0].PairwiseMatrix); len(violations) != 0 {
		t.Errorf("persisted matrix must validate after repair, got %v", violations)
	}
}

func TestRecommendStoreFailure(t *testing.T) {
	ms := &mockStore{listErr: errors.New("connection reset")}
	r := New(ms, nil, nil, testConfig(), discardLogger())

	_, err := r.Recommend(context.Background(), Request{
		Preferences: store.Preferences{FuelType: "benzin", Horsepower: 100, DoorCount: 4, BodyStyle: "hb"},
	})
	if err == nil {
		t.Fatal("expected catalog load failure to propagate")
	}
	if len(ms.recs) != 0 {
		t.Error("failed runs must not be persisted")
	}
}

func TestRecommendInvalidScoreOverride(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	r := New(ms, nil, nil, testConfig(), discardLogger())

	_, err := r.Recommend(context.Background(), Request{
		Preferences: store.Preferences{FuelType: "benzin", Horsepower: 100, DoorCount: 4, BodyStyle: "hb"},
		FuelScores:  map[string]float64{"benzin": -1},
	})
	var inputErr *scoring.InvalidInputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if !strings.Contains(inputErr.Reason, "fuel_scores") {
		t.Errorf("expected reason to name fuel_scores, got %q", inputErr.Reason)
	}
}

func TestRecommendScoreOverrideMissingVehicleLabel(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	r := New(ms, nil, nil, testConfig(), discardLogger())

	// The override drops hibrit and elektrik; their rows poison the matrix and
	// the ranker refuses it.
	_, err := r.Recommend(context.Background(), Request{
		Preferences: store.Preferences{FuelType: "benzin", Horsepower: 100, DoorCount: 4, BodyStyle: "hb"},
		FuelScores:  map[string]float64{"benzin": 3, "dizel": 2},
	})
	var inputErr *scoring.InvalidInputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestBuildReason(t *testing.T) {
	uniform := map[scoring.Criterion]float64{
		scoring.CriterionFuelType:   0.25,
		scoring.CriterionHorsepower: 0.25,
		scoring.CriterionDoorCount:  0.25,
		scoring.CriterionBodyStyle:  0.25,
	}
	if got := buildReason(uniform); got != "closest match on fuel type and horsepower" {
		t.Errorf("uniform weights: unexpected reason %q", got)
	}

	hpHeavy := map[scoring.Criterion]float64{
		scoring.CriterionFuelType:   0.1,
		scoring.CriterionHorsepower: 0.6,
		scoring.CriterionDoorCount:  0.05,
		scoring.CriterionBodyStyle:  0.25,
	}
	if got := buildReason(hpHeavy); got != "closest match on horsepower and body style" {
		t.Errorf("hp-heavy weights: unexpected reason %q", got)
	}
}

func TestSolveWeights(t *testing.T) {
	r := New(&mockStore{}, nil, nil, testConfig(), discardLogger())

	result, err := r.SolveWeights(WeightsRequest{
		PairwiseMatrix: scoring.IdentityMatrix(4),
		Sanitize:       true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Weights) != 4 {
		t.Fatalf("expected 4 weights, got %d", len(result.Weights))
	}
	for c, w := range result.Weights {
		if math.Abs(w-0.25) > 1e-9 {
			t.Errorf("weight %s: expected 0.25, got %f", c, w)
		}
	}
	if !result.Consistent || result.Threshold != 0.10 {
		t.Errorf("expected consistent at threshold 0.10, got %+v", result)
	}
}

func TestSolveWeightsRawValidation(t *testing.T) {
	r := New(&mockStore{}, nil, nil, testConfig(), discardLogger())

	matrix := [][]float64{
		{1, 0, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
	}

	// Raw solve surfaces the violations.
	_, err := r.SolveWeights(WeightsRequest{PairwiseMatrix: matrix, Sanitize: false})
	var validationErr *scoring.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// Sanitized solve repairs and succeeds.
	if _, err := r.SolveWeights(WeightsRequest{PairwiseMatrix: matrix, Sanitize: true}); err != nil {
		t.Fatalf("sanitized solve failed: %v", err)
	}
}

func TestSolveWeightsMissingMatrix(t *testing.T) {
	r := New(&mockStore{}, nil, nil, testConfig(), discardLogger())

	_, err := r.SolveWeights(WeightsRequest{})
	var inputErr *scoring.InvalidInputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}

	_, err = r.SolveWeights(WeightsRequest{PairwiseMatrix: scoring.IdentityMatrix(5)})
	var shapeErr *scoring.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError for wrong size, got %v", err)
	}
}

func TestSanitizeMatrix(t *testing.T) {
	r := New(&mockStore{}, nil, nil, testConfig(), discardLogger())

	result, err := r.SanitizeMatrix([][]float64{
		{1, 0},
		{4, 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Violations) != 2 {
		t.Errorf("expected 2 violations, got %v", result.Violations)
	}
	if violations := scoring.ValidatePairwise(result.Matrix); len(violations) != 0 {
		t.Errorf("repaired matrix must validate, got %v", violations)
	}

	clean, err := r.SanitizeMatrix(scoring.IdentityMatrix(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clean.Violations) != 0 {
		t.Errorf("expected no violations for clean matrix, got %v", clean.Violations)
	}

	_, err = r.SanitizeMatrix([][]float64{{1, 2}})
	var shapeErr *scoring.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
}

func TestCriteriaContract(t *testing.T) {
	r := New(&mockStore{}, nil, nil, testConfig(), discardLogger())

	info := r.Criteria()
	if info.ConsistencyThreshold != 0.10 {
		t.Errorf("expected threshold 0.10, got %f", info.ConsistencyThreshold)
	}
	if len(info.Criteria) != 4 {
		t.Fatalf("expected 4 criteria, got %d", len(info.Criteria))
	}
	if info.Criteria[0].Name != "fuel_type" || !info.Criteria[0].Categorical {
		t.Errorf("unexpected first criterion: %+v", info.Criteria[0])
	}
	if info.Criteria[0].Categories["elektrik"] != 5 {
		t.Errorf("expected fuel categories attached, got %v", info.Criteria[0].Categories)
	}
	if info.Criteria[1].Categorical || info.Criteria[1].Categories != nil {
		t.Errorf("horsepower must not carry categories: %+v", info.Criteria[1])
	}
	for _, c := range info.Criteria {
		if c.Direction != "cost" {
			t.Errorf("criterion %s: expected cost direction, got %s", c.Name, c.Direction)
		}
	}
}

func TestSyncCatalog(t *testing.T) {
	ms := &mockStore{}
	me := &mockEvents{}
	mi := &mockInventory{vehicles: []inventory.Vehicle{
		{Make: "Renault", Model: "Clio", Year: 2021, FuelType: "benzin", Horsepower: 90, DoorCount: 4, BodyStyle: "hb"},
		{Make: "Fiat", Model: "Egea", Year: 2022, FuelType: "lpg", Horsepower: 95, DoorCount: 4, BodyStyle: "sedan"},
		{Make: "Tesla", Model: "Model Y", Year: 2023, FuelType: "elektrik", Horsepower: 299, DoorCount: 5, BodyStyle: "suv"},
	}}
	r := New(ms, me, mi, testConfig(), discardLogger())

	result, err := r.SyncCatalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Fetched != 3 || result.Skipped != 1 || result.Inserted != 2 {
		t.Errorf("expected fetched 3 / skipped 1 / inserted 2, got %+v", result)
	}
	if len(ms.vehicles) != 2 {
		t.Errorf("expected 2 vehicles in catalog, got %d", len(ms.vehicles))
	}

	if len(me.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(me.published))
	}
	if me.published[0].subject != "advisor.catalog.synced" {
		t.Errorf("unexpected subject %q", me.published[0].subject)
	}
}

func TestSyncCatalogSkipsBrokenNumbers(t *testing.T) {
	ms := &mockStore{}
	mi := &mockInventory{vehicles: []inventory.Vehicle{
		{Make: "A", Model: "One", Year: 2020, FuelType: "benzin", Horsepower: 0, DoorCount: 4, BodyStyle: "sedan"},
		{Make: "B", Model: "Two", Year: 2020, FuelType: "benzin", Horsepower: math.NaN(), DoorCount: 4, BodyStyle: "sedan"},
		{Make: "C", Model: "Three", Year: 2020, FuelType: "benzin", Horsepower: 110, DoorCount: 0, BodyStyle: "sedan"},
		{Make: "", Model: "Four", Year: 2020, FuelType: "benzin", Horsepower: 110, DoorCount: 4, BodyStyle: "sedan"},
		{Make: "E", Model: "Five", Year: 2020, FuelType: "benzin", Horsepower: 110, DoorCount: 4, BodyStyle: "sedan"},
	}}
	r := New(ms, nil, mi, testConfig(), discardLogger())

	result, err := r.SyncCatalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped != 4 || result.Inserted != 1 {
		t.Errorf("expected skipped 4 / inserted 1, got %+v", result)
	}
}

func TestSyncCatalogNoInventory(t *testing.T) {
	r := New(&mockStore{}, nil, nil, testConfig(), discardLogger())
	_, err := r.SyncCatalog(context.Background())
	if !errors.Is(err, ErrNoInventory) {
		t.Fatalf("expected ErrNoInventory, got %v", err)
	}
}

func TestSyncCatalogFetchError(t *testing.T) {
	mi := &mockInventory{err: errors.New("connection refused")}
	r := New(&mockStore{}, nil, mi, testConfig(), discardLogger())
	if _, err := r.SyncCatalog(context.Background()); err == nil {
		t.Fatal("expected fetch error to propagate")
	}
}

func TestPublishStats(t *testing.T) {
	ms := &mockStore{}
	seedVehicles(ms)
	me := &mockEvents{}
	r := New(ms, me, nil, testConfig(), discardLogger())

	r.publishStats(context.Background())

	if len(me.published) != 1 {
		t.Fatalf("expected 1 stats event, got %d", len(me.published))
	}
	if me.published[0].subject != "advisor.stats" {
		t.Errorf("unexpected subject %q", me.published[0].subject)
	}
}

func TestStartStop(t *testing.T) {
	cfg := testConfig()
	cfg.Recommend.StatsIntervalMs = 10
	ms := &mockStore{}
	r := New(ms, &mockEvents{}, nil, cfg, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	r.Stop()
	// Stop must be safe to call twice.
	r.Stop()
}
