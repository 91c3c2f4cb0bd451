// Package scoring holds the pure derived-value calculators: invoice totals,
// milestone health and the weighted success probability. Functions here take
// only the fields they need and perform no I/O.
package scoring

import (
	"math"

	"sitework/internal/domain/models"
)

// Round2 rounds to two decimal places, the precision used for all monetary
// derived fields.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineItemAmounts recomputes each item's amount as quantity times unit price.
// Items with an explicit amount but no quantity/unit price are left as-is.
func LineItemAmounts(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	for i, item := range items {
		if item.Quantity != 0 && item.UnitPrice != 0 {
			item.Amount = Round2(item.Quantity * item.UnitPrice)
		}
		out[i] = item
	}
	return out
}

// RecomputeInvoice derives subtotal, tax, total and balance from the
// invoice's items, tax rate and paid amount, and applies the payment-driven
// status transitions: paid when the balance reaches zero, partial while a
// partial payment is outstanding.
func RecomputeInvoice(inv *models.Invoice) {
	inv.Items = LineItemAmounts(inv.Items)

	subtotal := 0.0
	for _, item := range inv.Items {
		subtotal += item.Amount
	}
	inv.Subtotal = Round2(subtotal)
	inv.TaxAmount = Round2(inv.Subtotal * inv.TaxRate / 100)
	inv.Total = Round2(inv.Subtotal + inv.TaxAmount)
	inv.Balance = Round2(inv.Total - inv.PaidAmount)

	switch {
	case inv.Status == models.InvoiceStatusCancelled:
		// cancelled invoices keep their status regardless of payments
	case inv.Balance <= 0 && inv.Total > 0:
		inv.Status = models.InvoiceStatusPaid
		inv.Balance = 0
	case inv.PaidAmount > 0 && inv.PaidAmount < inv.Total:
		inv.Status = models.InvoiceStatusPartial
	}
}

// RecomputePurchaseOrder derives subtotal, tax and total from the order's
// items and tax rate.
func RecomputePurchaseOrder(po *models.PurchaseOrder) {
	po.Items = LineItemAmounts(po.Items)

	subtotal := 0.0
	for _, item := range po.Items {
		subtotal += item.Amount
	}
	po.Subtotal = Round2(subtotal)
	po.TaxAmount = Round2(po.Subtotal * po.TaxRate / 100)
	po.Total = Round2(po.Subtotal + po.TaxAmount)
}
