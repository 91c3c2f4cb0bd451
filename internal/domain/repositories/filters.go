package repositories

import "time"

// ListFilter is the common collection-query shape: exact-match fields,
// free-text search, a created_at range and tag intersection. CompanyID is
// filled in by the service layer from the caller's scope, never from user
// input directly.
type ListFilter struct {
	CompanyID string
	ProjectID string
	Status    string
	Category  string
	Search    string
	Tags      []string
	From      *time.Time
	To        *time.Time
}

// TaskFilter extends ListFilter with task-specific fields.
type TaskFilter struct {
	ListFilter
	AssignedTo string
	Priority   string
}

// ActivityFilter selects audit-log entries.
type ActivityFilter struct {
	CompanyID  string
	ProjectID  string
	UserID     string
	EntityType string
	EntityID   string
	Action     string
	Search     string
	From       *time.Time
	To         *time.Time
}

// SubcontractorFilter selects trade partners.
type SubcontractorFilter struct {
	CompanyID       string
	Trade           string
	Status          string
	Search          string
	MinRating       float64
	InsuranceBefore *time.Time
}
