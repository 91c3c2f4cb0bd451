package models

import "time"

// Document status values.
const (
	DocumentStatusActive   = "active"
	DocumentStatusApproved = "approved"
	DocumentStatusPending  = "pending"
	DocumentStatusArchived = "archived"
	DocumentStatusRejected = "rejected"
)

// TagCritical marks a document that cannot be deleted while approved.
const TagCritical = "critical"

// Document is a file record attached to a project. Replacing the file path
// bumps the version and re-enters the approval workflow.
type Document struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	ProjectID   string    `json:"project_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Status      string    `json:"status"`
	FilePath    string    `json:"file_path,omitempty"`
	FileSize    int64     `json:"file_size,omitempty"`
	Version     int       `json:"version"`
	Tags        []string  `json:"tags,omitempty"`
	IsPrivate   bool      `json:"is_private"`
	UploadedBy  string    `json:"uploaded_by"`
	ReviewedBy  *string   `json:"reviewed_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasTag reports whether the document carries the given tag.
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ValidDocumentStatus reports whether s is a known document status.
func ValidDocumentStatus(s string) bool {
	switch s {
	case DocumentStatusActive, DocumentStatusApproved, DocumentStatusPending,
		DocumentStatusArchived, DocumentStatusRejected:
		return true
	}
	return false
}
