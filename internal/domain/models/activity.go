package models

import "time"

// Activity action values used across resource handlers.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionApproved = "approved"
	ActionRejected = "rejected"
	ActionArchived = "archived"
	ActionAssigned = "assigned"
)

// Activity is one audit-log entry describing a mutation performed by a user.
type Activity struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	ProjectID  string    `json:"project_id,omitempty"`
	UserID     string    `json:"user_id"`
	UserEmail  string    `json:"user_email,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	EntityName string    `json:"entity_name,omitempty"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notification describes an event that would be delivered to recipients by a
// dispatch collaborator. It is published to the outbound event log and echoed
// in API responses.
type Notification struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Recipients []string  `json:"recipients,omitempty"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
