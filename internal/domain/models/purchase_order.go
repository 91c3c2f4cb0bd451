package models

import "time"

// Purchase order status values. Line items are frozen once approved.
const (
	POStatusDraft     = "draft"
	POStatusPending   = "pending"
	POStatusApproved  = "approved"
	POStatusRejected  = "rejected"
	POStatusCancelled = "cancelled"
)

// ValidPOStatus reports whether s is a known purchase order status.
func ValidPOStatus(s string) bool {
	switch s {
	case POStatusDraft, POStatusPending, POStatusApproved,
		POStatusRejected, POStatusCancelled:
		return true
	}
	return false
}

// DefaultTaxRate applies when a purchase order or invoice does not specify
// its own rate, in percent.
const DefaultTaxRate = 8.5

// PurchaseOrder is an order placed with a vendor. PONumber follows the
// PO-{year}-{seq} scheme with the sequence scoped per year.
type PurchaseOrder struct {
	ID        string     `json:"id"`
	CompanyID string     `json:"company_id"`
	ProjectID string     `json:"project_id,omitempty"`
	VendorID  string     `json:"vendor_id"`
	PONumber  string     `json:"po_number"`
	Status    string     `json:"status"`
	Items     []LineItem `json:"items"`
	TaxRate   float64    `json:"tax_rate"`
	Subtotal  float64    `json:"subtotal"`
	TaxAmount float64    `json:"tax_amount"`
	Total     float64    `json:"total"`
	Notes     string     `json:"notes,omitempty"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
