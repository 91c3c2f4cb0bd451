package repositories

import (
	"context"

	"sitework/internal/domain/models"
)

// AutomationRepository is backed by Postgres rather than the in-memory
// collections; automation rules survive process restarts.
type AutomationRepository interface {
	List(ctx context.Context, companyID string) ([]models.AutomationRule, error)
	ListScheduled(ctx context.Context) ([]models.AutomationRule, error)
	GetByID(ctx context.Context, id string) (*models.AutomationRule, error)
	Create(ctx context.Context, r *models.AutomationRule) error
	Update(ctx context.Context, r *models.AutomationRule) error
	Delete(ctx context.Context, id string) error
	RecordRun(ctx context.Context, run *models.AutomationRun) error
	ListRuns(ctx context.Context, ruleID string, limit int) ([]models.AutomationRun, error)
}

// MarketplaceRepository stores the installable-module catalog in Postgres.
type MarketplaceRepository interface {
	List(ctx context.Context, category string, publishedOnly bool) ([]models.MarketplaceModule, error)
	GetByID(ctx context.Context, id string) (*models.MarketplaceModule, error)
	Create(ctx context.Context, m *models.MarketplaceModule) error
	Update(ctx context.Context, m *models.MarketplaceModule) error
	Delete(ctx context.Context, id string) error
	// IncrementInstalls bumps the install counter atomically.
	IncrementInstalls(ctx context.Context, id string) (*models.MarketplaceModule, error)
}
