package models

import (
	"encoding/json"
	"time"
)

// Automation trigger kinds.
const (
	TriggerEvent    = "event"
	TriggerSchedule = "schedule"
)

// AutomationRule is a Postgres-backed automation definition. Event-triggered
// rules match outbound events by type; schedule-triggered rules run on a cron
// expression.
type AutomationRule struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	TriggerType   string          `json:"trigger_type"`
	TriggerConfig json.RawMessage `json:"trigger_config,omitempty"`
	Schedule      string          `json:"schedule,omitempty"`
	Actions       json.RawMessage `json:"actions,omitempty"`
	Enabled       bool            `json:"enabled"`
	RunCount      int             `json:"run_count"`
	LastRunAt     *time.Time      `json:"last_run_at,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AutomationRun records one execution (real or synthesized via the test
// endpoint) of an automation rule.
type AutomationRun struct {
	ID        string    `json:"id"`
	RuleID    string    `json:"rule_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Synthetic bool      `json:"synthetic"`
	CreatedAt time.Time `json:"created_at"`
}
