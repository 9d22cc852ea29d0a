package events

import "time"

type RecommendationCompletedEvent struct {
	RecommendationID string  `json:"recommendation_id"`
	ClientID         string  `json:"client_id,omitempty"`
	VehicleCount     int     `json:"vehicle_count"`
	ResultCount      int     `json:"result_count"`
	TopVehicleID     string  `json:"top_vehicle_id,omitempty"`
	TopLabel         string  `json:"top_label,omitempty"`
	TopScore         float64 `json:"top_score"`
	ConsistencyRatio float64 `json:"consistency_ratio"`
	Consistent       bool    `json:"consistent"`
	DurationMs       float64 `json:"duration_ms"`
}

type CatalogSyncedEvent struct {
	VehicleCount int    `json:"vehicle_count"`
	Source       string `json:"source,omitempty"`
}

type CatalogChangedEvent struct {
	VehicleID string `json:"vehicle_id"`
	Change    string `json:"change"` // added, removed
}

type StatsEvent struct {
	Vehicles        int       `json:"vehicles"`
	Recommendations int       `json:"recommendations"`
	Inconsistent    int       `json:"inconsistent"`
	AvgDurationMs   float64   `json:"avg_duration_ms"`
	Timestamp       time.Time `json:"timestamp"`
}
