package models

import "time"

// Invoice status values. "partial" and "paid" are derived from payments,
// the rest are set explicitly.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPartial   = "partial"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// ValidInvoiceStatus reports whether s is a known invoice status.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartial,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// LineItem is a billable line on an invoice or purchase order. Amount is
// quantity times unit price, recomputed whenever items change.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// Invoice is a client-facing bill for project work. Subtotal, tax, total and
// balance are derived from Items, TaxRate and PaidAmount and recomputed on
// every mutation.
type Invoice struct {
	ID            string     `json:"id"`
	CompanyID     string     `json:"company_id"`
	ProjectID     string     `json:"project_id,omitempty"`
	ClientID      string     `json:"client_id,omitempty"`
	InvoiceNumber string     `json:"invoice_number"`
	Status        string     `json:"status"`
	Items         []LineItem `json:"items"`
	TaxRate       float64    `json:"tax_rate"`
	Subtotal      float64    `json:"subtotal"`
	TaxAmount     float64    `json:"tax_amount"`
	Total         float64    `json:"total"`
	PaidAmount    float64    `json:"paid_amount"`
	Balance       float64    `json:"balance"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
