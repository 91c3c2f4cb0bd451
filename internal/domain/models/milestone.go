package models

import "time"

// Milestone status values.
const (
	MilestoneStatusPending    = "pending"
	MilestoneStatusInProgress = "in-progress"
	MilestoneStatusCompleted  = "completed"
	MilestoneStatusDelayed    = "delayed"
)

// Milestone is a scheduled project checkpoint. Dependencies reference other
// milestone ids and must stay acyclic. HealthScore is a derived 0-100 value
// recomputed on every read and mutation.
type Milestone struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	ProjectID    string     `json:"project_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Progress     int        `json:"progress"`
	Budget       float64    `json:"budget"`
	ActualCost   float64    `json:"actual_cost"`
	Dependencies []string   `json:"dependencies,omitempty"`
	HealthScore  int        `json:"health_score"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ValidMilestoneStatus reports whether s is a known milestone status.
func ValidMilestoneStatus(s string) bool {
	switch s {
	case MilestoneStatusPending, MilestoneStatusInProgress,
		MilestoneStatusCompleted, MilestoneStatusDelayed:
		return true
	}
	return false
}
