package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/repository/memory"
	"sitework/internal/scoring"
)

// InvoiceService implements invoice CRUD with derived-total recomputation and
// the paid-invoice delete guard.
type InvoiceService struct {
	repo     repositories.InvoiceRepository
	recorder *Recorder
	logger   *slog.Logger
}

func NewInvoiceService(repo repositories.InvoiceRepository, recorder *Recorder, logger *slog.Logger) *InvoiceService {
	return &InvoiceService{repo: repo, recorder: recorder, logger: logger}
}

type CreateInvoiceRequest struct {
	CompanyID string            `json:"company_id"`
	ProjectID string            `json:"project_id"`
	ClientID  string            `json:"client_id"`
	Items     []models.LineItem `json:"items"`
	TaxRate   *float64          `json:"tax_rate"`
	DueDate   *time.Time        `json:"due_date"`
}

func (r CreateInvoiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CompanyID, validation.Required.Error("company_id is required")),
		validation.Field(&r.ClientID, validation.Required.Error("client_id is required")),
		validation.Field(&r.Items, validation.Required.Error("items must not be empty")),
	)
}

type UpdateInvoiceRequest struct {
	Status     *string            `json:"status"`
	Items      *[]models.LineItem `json:"items"`
	TaxRate    *float64           `json:"tax_rate"`
	PaidAmount *float64           `json:"paid_amount"`
	DueDate    *time.Time         `json:"due_date"`
}

// InvoiceSummary is the aggregate returned with list results.
type InvoiceSummary struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	TotalBilled float64        `json:"total_billed"`
	Outstanding float64        `json:"outstanding"`
}

func (s *InvoiceService) List(ctx context.Context, caller models.AuthContext, filter repositories.ListFilter) ([]models.Invoice, *InvoiceSummary, error) {
	filter.CompanyID = scopeCompany(caller, filter.CompanyID)

	invoices, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	summary := &InvoiceSummary{Total: len(invoices), ByStatus: map[string]int{}}
	for _, inv := range invoices {
		summary.ByStatus[inv.Status]++
		summary.TotalBilled += inv.Total
		summary.Outstanding += inv.Balance
	}
	summary.TotalBilled = scoring.Round2(summary.TotalBilled)
	summary.Outstanding = scoring.Round2(summary.Outstanding)

	return invoices, summary, nil
}

func (s *InvoiceService) Get(ctx context.Context, caller models.AuthContext, id string) (*models.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, inv.CompanyID, "invoice"); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) Create(ctx context.Context, caller models.AuthContext, req *CreateInvoiceRequest) (*Mutation[*models.Invoice], error) {
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
	id := memory.NewID("inv")
	inv := &models.Invoice{
		ID:            id,
		CompanyID:     req.CompanyID,
		ProjectID:     req.ProjectID,
		ClientID:      req.ClientID,
		InvoiceNumber: fmt.Sprintf("INV-%d-%s", now.Year(), strings.TrimPrefix(id, "inv-")),
		Status:        models.InvoiceStatusDraft,
		Items:         req.Items,
		TaxRate:       taxRate,
		DueDate:       req.DueDate,
		CreatedBy:     caller.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	scoring.RecomputeInvoice(inv)

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("invoice created", "invoice_id", inv.ID, "total", inv.Total)
	activity := s.recorder.Record(ctx, caller, models.ActionCreated, "invoice", inv.ID, inv.InvoiceNumber, inv.ProjectID, "")
	return &Mutation[*models.Invoice]{Record: inv, Activity: activity}, nil
}

// Update merges the patch, re-pins immutable fields and recomputes totals.
// Recording a payment may auto-transition the status to partial or paid.
func (s *InvoiceService) Update(ctx context.Context, caller models.AuthContext, id string, req *UpdateInvoiceRequest) (*Mutation[*models.Invoice], error) {
	inv, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	orig := *inv

	if req.Status != nil {
		if !models.ValidInvoiceStatus(*req.Status) {
			return nil, domain.Validationf("invalid status %q", *req.Status)
		}
		inv.Status = *req.Status
	}
	if req.Items != nil {
		inv.Items = *req.Items
	}
	if req.TaxRate != nil {
		inv.TaxRate = *req.TaxRate
	}
	if req.PaidAmount != nil {
		if *req.PaidAmount < 0 {
			return nil, domain.Validationf("paid_amount cannot be negative")
		}
		inv.PaidAmount = *req.PaidAmount
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}

	inv.ID = orig.ID
	inv.CompanyID = orig.CompanyID
	inv.CreatedBy = orig.CreatedBy
	inv.InvoiceNumber = orig.InvoiceNumber
	inv.CreatedAt = orig.CreatedAt
	inv.UpdatedAt = nowUTC()

	scoring.RecomputeInvoice(inv)

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	activity := s.recorder.Record(ctx, caller, models.ActionUpdated, "invoice", inv.ID, inv.InvoiceNumber, inv.ProjectID, "")
	var notification *models.Notification
	if inv.Status == models.InvoiceStatusPaid && orig.Status != models.InvoiceStatusPaid {
		notification = s.recorder.Notify(ctx, caller, "invoice_paid",
			"Invoice paid",
			fmt.Sprintf("Invoice %s has been paid in full", inv.InvoiceNumber),
			"invoice", inv.ID, []string{inv.CreatedBy})
	}

	return &Mutation[*models.Invoice]{Record: inv, Activity: activity, Notification: notification}, nil
}

// Delete removes an invoice unless it has been paid.
func (s *InvoiceService) Delete(ctx context.Context, caller models.AuthContext, id string) (*Mutation[*models.Invoice], error) {
	inv, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if inv.Status == models.InvoiceStatusPaid {
		return nil, &domain.StateConflictError{
			Message: "Cannot delete invoice",
			Details: "paid invoices cannot be deleted",
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	activity := s.recorder.Record(ctx, caller, models.ActionDeleted, "invoice", inv.ID, inv.InvoiceNumber, inv.ProjectID, "")
	return &Mutation[*models.Invoice]{Record: inv, Activity: activity}, nil
}
