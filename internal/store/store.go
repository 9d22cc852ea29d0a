package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Vehicle is one catalog entry. Records arrive already cleaned and typed from
// the inventory loader; fuel and body style use the canonical vocabularies
// (elektrik/hibrit/benzin/dizel, hb/sedan/suv/kupe).
type Vehicle struct {
	ID         uuid.UUID `json:"id"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	Year       int       `json:"year"`
	FuelType   string    `json:"fuel_type"`
	Horsepower float64   `json:"horsepower"`
	DoorCount  int       `json:"door_count"`
	BodyStyle  string    `json:"body_style"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Label is the display name used in results and events.
func (v *Vehicle) Label() string {
	return fmt.Sprintf("%s %s (%d)", v.Make, v.Model, v.Year)
}

type VehicleFilter struct {
	FuelType      string
	BodyStyle     string
	MinHorsepower *float64
	MaxHorsepower *float64
	DoorCount     *int
	Year          *int
	Limit         int
	Offset        int
}

// Preferences is the user's target value per criterion.
type Preferences struct {
	FuelType   string  `json:"fuel_type"`
	Horsepower float64 `json:"horsepower"`
	DoorCount  int     `json:"door_count"`
	BodyStyle  string  `json:"body_style"`
}

// RecommendationEntry is one ranked vehicle within a recommendation run.
type RecommendationEntry struct {
	VehicleID uuid.UUID `json:"vehicle_id"`
	Label     string    `json:"label"`
	Rank      int       `json:"rank"`
	Score     float64   `json:"score"`
}

// Recommendation is one persisted run of the full pipeline: the request
// snapshot, the derived weights with their consistency numbers, and the
// ranked outcome.
type Recommendation struct {
	ID       uuid.UUID `json:"id"`
	ClientID string    `json:"client_id,omitempty"`

	// Request snapshot
	Preferences     Preferences        `json:"preferences"`
	PairwiseMatrix  [][]float64        `json:"pairwise_matrix"`
	FuelScores      map[string]float64 `json:"fuel_scores"`
	BodyStyleScores map[string]float64 `json:"body_style_scores"`

	// Derived weights
	Weights          map[string]float64 `json:"weights"`
	LambdaMax        float64            `json:"lambda_max"`
	ConsistencyIndex float64            `json:"consistency_index"`
	ConsistencyRatio float64            `json:"consistency_ratio"`
	Consistent       bool               `json:"consistent"`

	// Outcome
	VehicleCount int                   `json:"vehicle_count"`
	Results      []RecommendationEntry `json:"results"`
	Reason       string                `json:"reason,omitempty"`
	DurationMs   float64               `json:"duration_ms"`

	CreatedAt time.Time `json:"created_at"`
}

type RecommendationFilter struct {
	ClientID   string
	Consistent *bool
	Limit      int
	Offset     int
}

type Stats struct {
	TotalVehicles               int     `json:"total_vehicles"`
	TotalRecommendations        int     `json:"total_recommendations"`
	InconsistentRecommendations int     `json:"inconsistent_recommendations"`
	AvgDurationMs               float64 `json:"avg_duration_ms"`
}

type Store interface {
	CreateVehicle(ctx context.Context, v *Vehicle) error
	GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	ListVehicles(ctx context.Context, filter VehicleFilter) ([]*Vehicle, error)
	DeleteVehicle(ctx context.Context, id uuid.UUID) error
	ReplaceVehicles(ctx context.Context, vehicles []*Vehicle) (int, error)
	CountVehicles(ctx context.Context) (int, error)

	CreateRecommendation(ctx context.Context, rec *Recommendation) error
	GetRecommendation(ctx context.Context, id uuid.UUID) (*Recommendation, error)
	ListRecommendations(ctx context.Context, filter RecommendationFilter) ([]*Recommendation, error)

	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
