package models

import "time"

// MarketplaceModule is a Postgres-backed catalog entry for an installable
// dashboard module.
type MarketplaceModule struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Version     string    `json:"version"`
	Author      string    `json:"author,omitempty"`
	Price       float64   `json:"price"`
	Installs    int       `json:"installs"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
