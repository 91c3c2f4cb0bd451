package repositories

import (
	"context"

	"sitework/internal/domain/models"
)

// Store interfaces for the in-memory resource collections. All List methods
// return records newest-first by created_at. Implementations return
// domain.ErrNotFound for missing ids.

type ProjectRepository interface {
	List(ctx context.Context, filter ListFilter) ([]models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id string) error
}

type TaskRepository interface {
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	Create(ctx context.Context, t *models.Task) error
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, id string) error
}

type DocumentRepository interface {
	List(ctx context.Context, filter ListFilter) ([]models.Document, error)
	GetByID(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, d *models.Document) error
	Update(ctx context.Context, d *models.Document) error
	Delete(ctx context.Context, id string) error
}

type InvoiceRepository interface {
	List(ctx context.Context, filter ListFilter) ([]models.Invoice, error)
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	Create(ctx context.Context, inv *models.Invoice) error
	Update(ctx context.Context, inv *models.Invoice) error
	Delete(ctx context.Context, id string) error
}

type PurchaseOrderRepository interface {
	List(ctx context.Context, filter ListFilter) ([]models.PurchaseOrder, error)
	GetByID(ctx context.Context, id string) (*models.PurchaseOrder, error)
	// CountForYear returns how many purchase orders exist with a PO number in
	// the given year, for PO-{year}-{seq} numbering.
	CountForYear(ctx context.Context, year int) (int, error)
	Create(ctx context.Context, po *models.PurchaseOrder) error
	Update(ctx context.Context, po *models.PurchaseOrder) error
	Delete(ctx context.Context, id string) error
}

type MilestoneRepository interface {
	List(ctx context.Context, filter ListFilter) ([]models.Milestone, error)
	GetByID(ctx context.Context, id string) (*models.Milestone, error)
	Create(ctx context.Context, m *models.Milestone) error
	Update(ctx context.Context, m *models.Milestone) error
	Delete(ctx context.Context, id string) error
}

type SubcontractorRepository interface {
	List(ctx context.Context, filter SubcontractorFilter) ([]models.Subcontractor, error)
	GetByID(ctx context.Context, id string) (*models.Subcontractor, error)
	Create(ctx context.Context, s *models.Subcontractor) error
	Update(ctx context.Context, s *models.Subcontractor) error
}

type ActivityRepository interface {
	List(ctx context.Context, filter ActivityFilter) ([]models.Activity, error)
	Create(ctx context.Context, a *models.Activity) error
}
