package events

const (
	SubjectStats = "advisor.stats"

	StreamName   = "ADVISOR_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectRecommendationCompleted(id string) string {
	return "advisor.recommendation." + id + ".completed"
}

func SubjectCatalogSynced() string  { return "advisor.catalog.synced" }
func SubjectCatalogChanged() string { return "advisor.catalog.changed" }
