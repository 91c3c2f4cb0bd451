package models

import "time"

// Subcontractor is a trade partner a company hires onto projects.
type Subcontractor struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"company_id"`
	Name            string     `json:"name"`
	Trade           string     `json:"trade"`
	ContactEmail    string     `json:"contact_email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Status          string     `json:"status"`
	Rating          float64    `json:"rating"`
	InsuranceExpiry *time.Time `json:"insurance_expiry,omitempty"`
	JobsCompleted   int        `json:"jobs_completed"`
	OnTimeRate      float64    `json:"on_time_rate"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
