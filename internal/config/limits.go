package config

const (
	// MaxNameLength is the maximum length for resource names and titles.
	// Limited to 255 to provide reasonable UX and fit VARCHAR(255) columns
	// on the Postgres-backed resources.
	MaxNameLength = 255

	// MaxDescriptionLength caps free-text description fields.
	MaxDescriptionLength = 4000

	// MaxBatchSize caps how many records one batch request may touch.
	MaxBatchSize = 500

	// MaxImportRows caps rows accepted by a single import request.
	MaxImportRows = 5000

	// TopRankingSize is the N used by top-N summary rankings (most-active
	// users, top performers).
	TopRankingSize = 5

	// AutomationRunHistory is how many recent runs the rules endpoints return.
	AutomationRunHistory = 20
)
