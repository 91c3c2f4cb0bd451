package memory

import (
	"time"

	"sitework/internal/domain/models"
)

// Stores bundles every in-memory repository so wiring in cmd/server stays
// compact.
type Stores struct {
	Projects       *ProjectStore
	Tasks          *TaskStore
	Documents      *DocumentStore
	Invoices       *InvoiceStore
	PurchaseOrders *PurchaseOrderStore
	Milestones     *MilestoneStore
	Subcontractors *SubcontractorStore
	Activities     *ActivityStore
}

// NewStores returns empty stores.
func NewStores() *Stores {
	return &Stores{
		Projects:       NewProjectStore(),
		Tasks:          NewTaskStore(),
		Documents:      NewDocumentStore(),
		Invoices:       NewInvoiceStore(),
		PurchaseOrders: NewPurchaseOrderStore(),
		Milestones:     NewMilestoneStore(),
		Subcontractors: NewSubcontractorStore(),
		Activities:     NewActivityStore(),
	}
}

// NewSeededStores returns stores preloaded with the fixture records the API
// serves at process start.
func NewSeededStores() *Stores {
	s := NewStores()
	now := time.Now().UTC()
	week := 7 * 24 * time.Hour

	due30 := now.Add(30 * 24 * time.Hour)
	due60 := now.Add(60 * 24 * time.Hour)
	insurance := now.Add(90 * 24 * time.Hour)
	reviewer := "user-2"

	s.Projects.Insert(models.Project{
		ID: "proj-1001", CompanyID: "c1", Name: "Riverside Tower",
		Description: "24-story mixed-use development", Status: models.ProjectStatusActive,
		Budget: 4_500_000, Tags: []string{"commercial", "high-rise"},
		CreatedBy: "user-1", CreatedAt: now.Add(-8 * week), UpdatedAt: now.Add(-week),
	})
	s.Projects.Insert(models.Project{
		ID: "proj-1002", CompanyID: "c1", Name: "Maple Grove Homes",
		Description: "Phase 2 residential subdivision", Status: models.ProjectStatusPlanning,
		Budget: 1_200_000, Tags: []string{"residential"},
		CreatedBy: "user-1", CreatedAt: now.Add(-4 * week), UpdatedAt: now.Add(-2 * week),
	})

	s.Tasks.Insert(models.Task{
		ID: "task-2001", CompanyID: "c1", ProjectID: "proj-1001",
		Title: "Pour foundation slab", Status: models.TaskStatusInProgress,
		Priority: models.PriorityHigh, Category: "structural", AssignedTo: "user-3",
		Progress: 60, DueDate: &due30, CreatedBy: "user-1",
		CreatedAt: now.Add(-3 * week), UpdatedAt: now.Add(-24 * time.Hour),
	})
	s.Tasks.Insert(models.Task{
		ID: "task-2002", CompanyID: "c1", ProjectID: "proj-1001",
		Title: "Electrical rough-in inspection", Status: models.TaskStatusTodo,
		Priority: models.PriorityMedium, Category: "electrical", AssignedTo: "user-4",
		DueDate: &due60, CreatedBy: "user-1",
		CreatedAt: now.Add(-2 * week), UpdatedAt: now.Add(-2 * week),
	})

	s.Documents.Insert(models.Document{
		ID: "doc-3001", CompanyID: "c1", ProjectID: "proj-1001",
		Name: "Structural drawings rev C", Category: "drawings",
		Status: models.DocumentStatusApproved, FilePath: "/files/structural-rev-c.pdf",
		Version: 3, Tags: []string{"critical", "structural"},
		UploadedBy: "user-1", ReviewedBy: &reviewer,
		CreatedAt: now.Add(-6 * week), UpdatedAt: now.Add(-week),
	})
	s.Documents.Insert(models.Document{
		ID: "doc-3002", CompanyID: "c1", ProjectID: "proj-1002",
		Name: "Site survey", Category: "reports",
		Status: models.DocumentStatusActive, FilePath: "/files/site-survey.pdf",
		Version: 1, UploadedBy: "user-2",
		CreatedAt: now.Add(-3 * week), UpdatedAt: now.Add(-3 * week),
	})

	s.Invoices.Insert(models.Invoice{
		ID: "inv-4001", CompanyID: "c1", ProjectID: "proj-1001", ClientID: "client-1",
		InvoiceNumber: "INV-2025-014", Status: models.InvoiceStatusSent,
		Items: []models.LineItem{
			{Description: "Concrete works", Quantity: 1, UnitPrice: 42_000, Amount: 42_000},
			{Description: "Rebar supply", Quantity: 1, UnitPrice: 8_500, Amount: 8_500},
		},
		TaxRate: models.DefaultTaxRate, Subtotal: 50_500, TaxAmount: 4_292.5,
		Total: 54_792.5, Balance: 54_792.5, DueDate: &due30, CreatedBy: "user-1",
		CreatedAt: now.Add(-2 * week), UpdatedAt: now.Add(-2 * week),
	})

	s.PurchaseOrders.Insert(models.PurchaseOrder{
		ID: "po-5001", CompanyID: "c1", ProjectID: "proj-1001", VendorID: "vendor-7",
		PONumber: "PO-2025-0041", Status: models.POStatusApproved,
		Items: []models.LineItem{
			{Description: "Steel beams W12x26", Quantity: 40, UnitPrice: 310, Amount: 12_400},
		},
		TaxRate: models.DefaultTaxRate, Subtotal: 12_400, TaxAmount: 1_054, Total: 13_454,
		CreatedBy: "user-1", CreatedAt: now.Add(-5 * week), UpdatedAt: now.Add(-4 * week),
	})

	s.Milestones.Insert(models.Milestone{
		ID: "ms-6001", CompanyID: "c1", ProjectID: "proj-1001",
		Name: "Foundation complete", Status: models.MilestoneStatusInProgress,
		DueDate: &due30, Progress: 55, Budget: 600_000, ActualCost: 540_000,
		HealthScore: 100, CreatedBy: "user-1",
		CreatedAt: now.Add(-6 * week), UpdatedAt: now.Add(-week),
	})
	s.Milestones.Insert(models.Milestone{
		ID: "ms-6002", CompanyID: "c1", ProjectID: "proj-1001",
		Name: "Structure topped out", Status: models.MilestoneStatusPending,
		DueDate: &due60, Budget: 1_400_000, Dependencies: []string{"ms-6001"},
		HealthScore: 100, CreatedBy: "user-1",
		CreatedAt: now.Add(-6 * week), UpdatedAt: now.Add(-6 * week),
	})

	s.Subcontractors.Insert(models.Subcontractor{
		ID: "sub-7001", CompanyID: "c1", Name: "Apex Electrical LLC",
		Trade: "electrical", Status: "active", Rating: 4.6,
		InsuranceExpiry: &insurance, JobsCompleted: 23, OnTimeRate: 0.91,
		CreatedAt: now.Add(-20 * week), UpdatedAt: now.Add(-week),
	})
	s.Subcontractors.Insert(models.Subcontractor{
		ID: "sub-7002", CompanyID: "c1", Name: "Northside Plumbing",
		Trade: "plumbing", Status: "active", Rating: 4.1,
		JobsCompleted: 11, OnTimeRate: 0.82,
		CreatedAt: now.Add(-12 * week), UpdatedAt: now.Add(-3 * week),
	})

	s.Activities.Insert(models.Activity{
		ID: "act-8001", CompanyID: "c1", ProjectID: "proj-1001",
		UserID: "user-1", Action: models.ActionCreated,
		EntityType: "project", EntityID: "proj-1001", EntityName: "Riverside Tower",
		CreatedAt: now.Add(-8 * week),
	})

	return s
}

// Insert helpers let the seeder add fixtures without exporting the inner
// collection type.
func (s *ProjectStore) Insert(p models.Project)             { s.c.Insert(p) }
func (s *TaskStore) Insert(t models.Task)                   { s.c.Insert(t) }
func (s *DocumentStore) Insert(d models.Document)           { s.c.Insert(d) }
func (s *InvoiceStore) Insert(i models.Invoice)             { s.c.Insert(i) }
func (s *PurchaseOrderStore) Insert(p models.PurchaseOrder) { s.c.Insert(p) }
func (s *MilestoneStore) Insert(m models.Milestone)         { s.c.Insert(m) }
func (s *SubcontractorStore) Insert(sc models.Subcontractor) {
	s.c.Insert(sc)
}
func (s *ActivityStore) Insert(a models.Activity) { s.c.Insert(a) }
