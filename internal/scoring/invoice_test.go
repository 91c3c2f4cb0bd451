package scoring

import (
	"testing"

	"sitework/internal/domain/models"
)

func TestRecomputeInvoice(t *testing.T) {
	tests := []struct {
		name          string
		invoice       models.Invoice
		wantSubtotal  float64
		wantTaxAmount float64
		wantTotal     float64
		wantBalance   float64
		wantStatus    string
	}{
		{
			name: "two items with tax",
			invoice: models.Invoice{
				Status: models.InvoiceStatusSent,
				Items: []models.LineItem{
					{Description: "Concrete pour", Quantity: 2, UnitPrice: 30},
					{Description: "Rebar", Quantity: 4, UnitPrice: 10},
				},
				TaxRate: 8.5,
			},
			wantSubtotal:  100,
			wantTaxAmount: 8.5,
			wantTotal:     108.5,
			wantBalance:   108.5,
			wantStatus:    models.InvoiceStatusSent,
		},
		{
			name: "partial payment",
			invoice: models.Invoice{
				Status: models.InvoiceStatusSent,
				Items: []models.LineItem{
					{Description: "Framing", Quantity: 1, UnitPrice: 500},
				},
				TaxRate:    0,
				PaidAmount: 200,
			},
			wantSubtotal:  500,
			wantTaxAmount: 0,
			wantTotal:     500,
			wantBalance:   300,
			wantStatus:    models.InvoiceStatusPartial,
		},
		{
			name: "full payment marks paid and zeroes balance",
			invoice: models.Invoice{
				Status: models.InvoiceStatusSent,
				Items: []models.LineItem{
					{Description: "Framing", Quantity: 1, UnitPrice: 500},
				},
				PaidAmount: 500,
			},
			wantSubtotal: 500,
			wantTotal:    500,
			wantBalance:  0,
			wantStatus:   models.InvoiceStatusPaid,
		},
		{
			name: "overpayment clamps balance to zero",
			invoice: models.Invoice{
				Status: models.InvoiceStatusSent,
				Items: []models.LineItem{
					{Description: "Framing", Quantity: 1, UnitPrice: 500},
				},
				PaidAmount: 600,
			},
			wantSubtotal: 500,
			wantTotal:    500,
			wantBalance:  0,
			wantStatus:   models.InvoiceStatusPaid,
		},
		{
			name: "cancelled keeps status despite payment",
			invoice: models.Invoice{
				Status: models.InvoiceStatusCancelled,
				Items: []models.LineItem{
					{Description: "Framing", Quantity: 1, UnitPrice: 500},
				},
				PaidAmount: 500,
			},
			wantSubtotal: 500,
			wantTotal:    500,
			wantBalance:  0,
			wantStatus:   models.InvoiceStatusCancelled,
		},
		{
			name: "explicit amount kept when quantity missing",
			invoice: models.Invoice{
				Status: models.InvoiceStatusDraft,
				Items: []models.LineItem{
					{Description: "Permit fee", Amount: 250},
				},
			},
			wantSubtotal: 250,
			wantTotal:    250,
			wantBalance:  250,
			wantStatus:   models.InvoiceStatusDraft,
		},
		{
			name: "rounding at two decimals",
			invoice: models.Invoice{
				Status: models.InvoiceStatusSent,
				Items: []models.LineItem{
					{Description: "Hourly labor", Quantity: 3, UnitPrice: 33.333},
				},
				TaxRate: 7,
			},
			wantSubtotal:  100,
			wantTaxAmount: 7,
			wantTotal:     107,
			wantBalance:   107,
			wantStatus:    models.InvoiceStatusSent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.invoice
			RecomputeInvoice(&inv)

			if inv.Subtotal != tt.wantSubtotal {
				t.Errorf("Subtotal = %v, want %v", inv.Subtotal, tt.wantSubtotal)
			}
			if inv.TaxAmount != tt.wantTaxAmount {
				t.Errorf("TaxAmount = %v, want %v", inv.TaxAmount, tt.wantTaxAmount)
			}
			if inv.Total != tt.wantTotal {
				t.Errorf("Total = %v, want %v", inv.Total, tt.wantTotal)
			}
			if inv.Balance != tt.wantBalance {
				t.Errorf("Balance = %v, want %v", inv.Balance, tt.wantBalance)
			}
			if inv.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", inv.Status, tt.wantStatus)
			}
		})
	}
}

func TestRecomputeInvoiceZeroTotalNotPaid(t *testing.T) {
	inv := models.Invoice{Status: models.InvoiceStatusDraft}
	RecomputeInvoice(&inv)
	if inv.Status != models.InvoiceStatusDraft {
		t.Errorf("Status = %q, want draft for empty invoice", inv.Status)
	}
}

func TestRecomputePurchaseOrder(t *testing.T) {
	po := models.PurchaseOrder{
		Items: []models.LineItem{
			{Description: "Lumber", Quantity: 10, UnitPrice: 25.5},
			{Description: "Fasteners", Quantity: 2, UnitPrice: 12.25},
		},
		TaxRate: 6,
	}
	RecomputePurchaseOrder(&po)

	if po.Subtotal != 279.5 {
		t.Errorf("Subtotal = %v, want 279.5", po.Subtotal)
	}
	if po.TaxAmount != 16.77 {
		t.Errorf("TaxAmount = %v, want 16.77", po.TaxAmount)
	}
	if po.Total != 296.27 {
		t.Errorf("Total = %v, want 296.27", po.Total)
	}
	if po.Items[0].Amount != 255 {
		t.Errorf("Items[0].Amount = %v, want 255", po.Items[0].Amount)
	}
}
