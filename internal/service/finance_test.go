package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
)

func newFinanceEnv(t *testing.T) (*InvoiceService, *PurchaseOrderService, *testEnv) {
	t.Helper()
	env := newTestEnv()
	invoices := NewInvoiceService(env.stores.Invoices, env.recorder, env.logger)
	orders := NewPurchaseOrderService(env.stores.PurchaseOrders, env.recorder, env.logger)
	return invoices, orders, env
}

func TestPurchaseOrderDefaults(t *testing.T) {
	_, orders, _ := newFinanceEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	created, err := orders.Create(ctx, caller, &CreatePurchaseOrderRequest{
		CompanyID: "c1",
		VendorID:  "sub-1",
		Items: []models.LineItem{
			{Description: "Gravel", Quantity: 2, UnitPrice: 30},
			{Description: "Sand", Quantity: 4, UnitPrice: 10},
		},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	po := created.Record

	wantNumber := fmt.Sprintf("PO-%d-0001", time.Now().UTC().Year())
	if po.PONumber != wantNumber {
		t.Errorf("PONumber = %q, want %q", po.PONumber, wantNumber)
	}
	if po.Status != models.POStatusDraft {
		t.Errorf("Status = %q, want draft", po.Status)
	}
	if po.Subtotal != 100 || po.TaxAmount != 8.5 || po.Total != 108.5 {
		t.Errorf("totals = %v/%v/%v, want 100/8.5/108.5", po.Subtotal, po.TaxAmount, po.Total)
	}

	second, err := orders.Create(ctx, caller, &CreatePurchaseOrderRequest{
		CompanyID: "c1", VendorID: "sub-2",
		Items: []models.LineItem{{Description: "Pipe", Quantity: 1, UnitPrice: 75}},
	})
	if err != nil {
		t.Fatalf("Create(second) error = %v", err)
	}
	wantNumber = fmt.Sprintf("PO-%d-0002", time.Now().UTC().Year())
	if second.Record.PONumber != wantNumber {
		t.Errorf("second PONumber = %q, want %q", second.Record.PONumber, wantNumber)
	}
}

func TestPurchaseOrderApprovedItemLock(t *testing.T) {
	_, orders, _ := newFinanceEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	created, err := orders.Create(ctx, caller, &CreatePurchaseOrderRequest{
		CompanyID: "c1", VendorID: "sub-1",
		Items: []models.LineItem{{Description: "Steel", Quantity: 1, UnitPrice: 900}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	id := created.Record.ID

	approved := models.POStatusApproved
	if _, err := orders.Update(ctx, caller, id, &UpdatePurchaseOrderRequest{Status: &approved}); err != nil {
		t.Fatalf("Update(approve) error = %v", err)
	}

	newItems := []models.LineItem{{Description: "Steel", Quantity: 2, UnitPrice: 900}}
	_, err = orders.Update(ctx, caller, id, &UpdatePurchaseOrderRequest{Items: &newItems})
	var stateErr *domain.StateConflictError
	if !errors.As(err, &stateErr) {
		t.Fatalf("Update(items on approved) error = %v, want StateConflictError", err)
	}

	got, err := orders.Get(ctx, caller, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Total != 900 {
		t.Errorf("Total after refused update = %v, want 900", got.Total)
	}
}

func TestFinanceStatusValidation(t *testing.T) {
	invoices, orders, _ := newFinanceEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	inv, err := invoices.Create(ctx, caller, &CreateInvoiceRequest{
		CompanyID: "c1", ClientID: "client-1",
		Items: []models.LineItem{{Description: "Survey", Quantity: 1, UnitPrice: 100}},
	})
	if err != nil {
		t.Fatalf("Create(invoice) error = %v", err)
	}
	bogus := "exploded"
	if _, err := invoices.Update(ctx, caller, inv.Record.ID, &UpdateInvoiceRequest{Status: &bogus}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Update(invoice, bad status) error = %v, want ErrValidation", err)
	}
	got, err := invoices.Get(ctx, caller, inv.Record.ID)
	if err != nil {
		t.Fatalf("Get(invoice) error = %v", err)
	}
	if got.Status != models.InvoiceStatusDraft {
		t.Errorf("invoice status = %q, want draft", got.Status)
	}

	po, err := orders.Create(ctx, caller, &CreatePurchaseOrderRequest{
		CompanyID: "c1", VendorID: "sub-1",
		Items: []models.LineItem{{Description: "Rebar", Quantity: 1, UnitPrice: 100}},
	})
	if err != nil {
		t.Fatalf("Create(po) error = %v", err)
	}
	if _, err := orders.Update(ctx, caller, po.Record.ID, &UpdatePurchaseOrderRequest{Status: &bogus}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Update(po, bad status) error = %v, want ErrValidation", err)
	}
}

func TestInvoicePaymentTransitions(t *testing.T) {
	invoices, _, _ := newFinanceEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	created, err := invoices.Create(ctx, caller, &CreateInvoiceRequest{
		CompanyID: "c1", ClientID: "client-1",
		Items: []models.LineItem{{Description: "Mobilization", Quantity: 1, UnitPrice: 1000}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	inv := created.Record
	if inv.Total != 1085 {
		t.Fatalf("Total = %v, want 1085 at default tax", inv.Total)
	}

	partial := 500.0
	updated, err := invoices.Update(ctx, caller, inv.ID, &UpdateInvoiceRequest{PaidAmount: &partial})
	if err != nil {
		t.Fatalf("Update(partial) error = %v", err)
	}
	if updated.Record.Status != models.InvoiceStatusPartial {
		t.Errorf("Status = %q, want partial", updated.Record.Status)
	}
	if updated.Record.Balance != 585 {
		t.Errorf("Balance = %v, want 585", updated.Record.Balance)
	}

	full := 1085.0
	updated, err = invoices.Update(ctx, caller, inv.ID, &UpdateInvoiceRequest{PaidAmount: &full})
	if err != nil {
		t.Fatalf("Update(full) error = %v", err)
	}
	if updated.Record.Status != models.InvoiceStatusPaid {
		t.Errorf("Status = %q, want paid", updated.Record.Status)
	}
	if updated.Notification == nil {
		t.Error("full payment produced no notification")
	}

	// Paid invoices cannot be deleted.
	_, err = invoices.Delete(ctx, caller, inv.ID)
	var stateErr *domain.StateConflictError
	if !errors.As(err, &stateErr) {
		t.Fatalf("Delete(paid) error = %v, want StateConflictError", err)
	}
	if _, err := invoices.Get(ctx, caller, inv.ID); err != nil {
		t.Errorf("Get() after refused delete error = %v", err)
	}
}
