package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_recommendations_total",
			Help: "Recommendation runs by outcome",
		},
		[]string{"status"},
	)

	RecommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "advisor_recommendation_duration_seconds",
			Help:    "End-to-end recommendation pipeline duration",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	WeightSolvesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_weight_solves_total",
			Help: "AHP weight solves by consistency outcome",
		},
		[]string{"consistent"},
	)

	ConsistencyRatio = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "advisor_consistency_ratio",
			Help:    "Consistency ratios of solved pairwise matrices",
			Buckets: []float64{0.01, 0.02, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5, 1},
		},
	)

	CatalogVehicles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_catalog_vehicles",
			Help: "Vehicles currently in the catalog",
		},
	)

	CatalogSyncsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_catalog_syncs_total",
			Help: "Catalog sync attempts by outcome",
		},
		[]string{"status"},
	)
)

func Init() {
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(RecommendationDuration)
	prometheus.MustRegister(WeightSolvesTotal)
	prometheus.MustRegister(ConsistencyRatio)
	prometheus.MustRegister(CatalogVehicles)
	prometheus.MustRegister(CatalogSyncsTotal)
}
