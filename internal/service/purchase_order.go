package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/repository/memory"
	"sitework/internal/scoring"
)

// PurchaseOrderService implements purchase-order CRUD: PO-{year}-{seq}
// numbering, derived totals, and the approved-order line-item lock.
type PurchaseOrderService struct {
	repo     repositories.PurchaseOrderRepository
	recorder *Recorder
	logger   *slog.Logger
}

func NewPurchaseOrderService(repo repositories.PurchaseOrderRepository, recorder *Recorder, logger *slog.Logger) *PurchaseOrderService {
	return &PurchaseOrderService{repo: repo, recorder: recorder, logger: logger}
}

type CreatePurchaseOrderRequest struct {
	CompanyID string            `json:"company_id"`
	ProjectID string            `json:"project_id"`
	VendorID  string            `json:"vendor_id"`
	Items     []models.LineItem `json:"items"`
	TaxRate   *float64          `json:"tax_rate"`
	Notes     string            `json:"notes"`
}

func (r CreatePurchaseOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CompanyID, validation.Required.Error("company_id is required")),
		validation.Field(&r.VendorID, validation.Required.Error("vendor_id is required")),
		validation.Field(&r.Items, validation.Required.Error("items must not be empty")),
	)
}

type UpdatePurchaseOrderRequest struct {
	Status  *string            `json:"status"`
	Items   *[]models.LineItem `json:"items"`
	TaxRate *float64           `json:"tax_rate"`
	Notes   *string            `json:"notes"`
}

// PurchaseOrderSummary is the aggregate returned with list results.
type PurchaseOrderSummary struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	TotalValue float64        `json:"total_value"`
	TopVendors []NameCount    `json:"top_vendors"`
}

func (s *PurchaseOrderService) List(ctx context.Context, caller models.AuthContext, filter repositories.ListFilter) ([]models.PurchaseOrder, *PurchaseOrderSummary, error) {
	filter.CompanyID = scopeCompany(caller, filter.CompanyID)

	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	summary := &PurchaseOrderSummary{Total: len(orders), ByStatus: map[string]int{}}
	vendors := map[string]int{}
	for _, po := range orders {
		summary.ByStatus[po.Status]++
		summary.TotalValue += po.Total
		vendors[po.VendorID]++
	}
	summary.TotalValue = scoring.Round2(summary.TotalValue)
	summary.TopVendors = topN(vendors, 5)

	return orders, summary, nil
}

func (s *PurchaseOrderService) Get(ctx context.Context, caller models.AuthContext, id string) (*models.PurchaseOrder, error) {
	po, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, po.CompanyID, "purchase order"); err != nil {
		return nil, err
	}
	return po, nil
}

func (s *PurchaseOrderService) Create(ctx context.Context, caller models.AuthContext, req *CreatePurchaseOrderRequest) (*Mutation[*models.PurchaseOrder], error) {
	if !caller.IsSuperAdmin() {
		req.CompanyID = caller.CompanyID
	}
	if err := req.Validate(); err != nil {
		return nil, domain.Validationf("%v", err)
	}

	taxRate := models.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	now := nowUTC()
	year := now.Year()
	seq, err := s.repo.CountForYear(ctx, year)
	if err != nil {
		return nil, err
	}

	po := &models.PurchaseOrder{
		ID:        memory.NewID("po"),
		CompanyID: req.CompanyID,
		ProjectID: req.ProjectID,
		VendorID:  req.VendorID,
		PONumber:  fmt.Sprintf("PO-%d-%04d", year, seq+1),
		Status:    models.POStatusDraft,
		Items:     req.Items,
		TaxRate:   taxRate,
		Notes:     req.Notes,
		CreatedBy: caller.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	scoring.RecomputePurchaseOrder(po)

	if err := s.repo.Create(ctx, po); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created", "po_id", po.ID, "po_number", po.PONumber, "total", po.Total)
	activity := s.recorder.Record(ctx, caller, models.ActionCreated, "purchase_order", po.ID, po.PONumber, po.ProjectID, "")
	return &Mutation[*models.PurchaseOrder]{Record: po, Activity: activity}, nil
}

// Update merges the patch and recomputes totals. Line items of an approved
// order are frozen.
func (s *PurchaseOrderService) Update(ctx context.Context, caller models.AuthContext, id string, req *UpdatePurchaseOrderRequest) (*Mutation[*models.PurchaseOrder], error) {
	po, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	orig := *po

	if req.Items != nil && orig.Status == models.POStatusApproved {
		return nil, &domain.StateConflictError{
			Message: "Cannot modify purchase order",
			Details: "line items of an approved purchase order cannot be changed",
		}
	}

	if req.Status != nil {
		if !models.ValidPOStatus(*req.Status) {
			return nil, domain.Validationf("invalid status %q", *req.Status)
		}
		po.Status = *req.Status
	}
	if req.Items != nil {
		po.Items = *req.Items
	}
	if req.TaxRate != nil {
		po.TaxRate = *req.TaxRate
	}
	if req.Notes != nil {
		po.Notes = *req.Notes
	}

	po.ID = orig.ID
	po.CompanyID = orig.CompanyID
	po.CreatedBy = orig.CreatedBy
	po.PONumber = orig.PONumber
	po.CreatedAt = orig.CreatedAt
	po.UpdatedAt = nowUTC()

	scoring.RecomputePurchaseOrder(po)

	if err := s.repo.Update(ctx, po); err != nil {
		return nil, err
	}

	activity := s.recorder.Record(ctx, caller, models.ActionUpdated, "purchase_order", po.ID, po.PONumber, po.ProjectID, "")
	var notification *models.Notification
	if po.Status == models.POStatusApproved && orig.Status != models.POStatusApproved {
		notification = s.recorder.Notify(ctx, caller, "po_approved",
			"Purchase order approved",
			fmt.Sprintf("%s was approved for %.2f", po.PONumber, po.Total),
			"purchase_order", po.ID, []string{po.CreatedBy})
	}

	return &Mutation[*models.PurchaseOrder]{Record: po, Activity: activity, Notification: notification}, nil
}

func (s *PurchaseOrderService) Delete(ctx context.Context, caller models.AuthContext, id string) (*Mutation[*models.PurchaseOrder], error) {
	po, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	activity := s.recorder.Record(ctx, caller, models.ActionDeleted, "purchase_order", po.ID, po.PONumber, po.ProjectID, "")
	return &Mutation[*models.PurchaseOrder]{Record: po, Activity: activity}, nil
}
