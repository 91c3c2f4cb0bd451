package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitework/internal/config"
	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/repository/memory"
)

// DocumentService implements the document CRUD contract: approval workflow,
// versioning on file replacement, and the approved+critical delete guard.
type DocumentService struct {
	repo     repositories.DocumentRepository
	recorder *Recorder
	logger   *slog.Logger
}

func NewDocumentService(repo repositories.DocumentRepository, recorder *Recorder, logger *slog.Logger) *DocumentService {
	return &DocumentService{repo: repo, recorder: recorder, logger: logger}
}

type CreateDocumentRequest struct {
	Name        string   `json:"name"`
	CompanyID   string   `json:"company_id"`
	ProjectID   string   `json:"project_id"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	FilePath    string   `json:"file_path"`
	FileSize    int64    `json:"file_size"`
	Tags        []string `json:"tags"`
	IsPrivate   bool     `json:"is_private"`
}

func (r CreateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, config.MaxNameLength)),
		validation.Field(&r.CompanyID, validation.Required.Error("company_id is required")),
		validation.Field(&r.Description, validation.Length(0, config.MaxDescriptionLength)),
	)
}

type UpdateDocumentRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Status      *string   `json:"status"`
	FilePath    *string   `json:"file_path"`
	FileSize    *int64    `json:"file_size"`
	Tags        *[]string `json:"tags"`
	IsPrivate   *bool     `json:"is_private"`
}

// DocumentSummary is the derived aggregate returned alongside list results.
type DocumentSummary struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	ByCategory   map[string]int `json:"by_category"`
	TopUploaders []NameCount    `json:"top_uploaders"`
}

// List returns documents visible to the caller plus the summary aggregate.
// Private documents are hidden from everyone but their uploader.
func (s *DocumentService) List(ctx context.Context, caller models.AuthContext, filter repositories.ListFilter) ([]models.Document, *DocumentSummary, error) {
	filter.CompanyID = scopeCompany(caller, filter.CompanyID)

	docs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	visible := docs[:0]
	for _, d := range docs {
		if d.IsPrivate && d.UploadedBy != caller.UserID && !caller.IsSuperAdmin() {
			continue
		}
		visible = append(visible, d)
	}

	summary := &DocumentSummary{
		Total:      len(visible),
		ByStatus:   map[string]int{},
		ByCategory: map[string]int{},
	}
	uploaders := map[string]int{}
	for _, d := range visible {
		summary.ByStatus[d.Status]++
		if d.Category != "" {
			summary.ByCategory[d.Category]++
		}
		uploaders[d.UploadedBy]++
	}
	summary.TopUploaders = topN(uploaders, config.TopRankingSize)

	return visible, summary, nil
}

// Get returns one document, enforcing company scope and private-document
// ownership.
func (s *DocumentService) Get(ctx context.Context, caller models.AuthContext, id string) (*models.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, doc.CompanyID, "document"); err != nil {
		return nil, err
	}
	if doc.IsPrivate && doc.UploadedBy != caller.UserID && !caller.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: this document is private", domain.ErrForbidden)
	}
	return doc, nil
}

// Create assigns id, defaults and timestamps, then records the activity and
// upload notification.
func (s *DocumentService) Create(ctx context.Context, caller models.AuthContext, req *CreateDocumentRequest) (*Mutation[*models.Document], error) {
	if !caller.IsSuperAdmin() {
		req.CompanyID = caller.CompanyID
	}
	if err := req.Validate(); err != nil {
		return nil, domain.Validationf("%v", err)
	}

	now := nowUTC()
	doc := &models.Document{
		ID:          memory.NewID("doc"),
		CompanyID:   req.CompanyID,
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.DocumentStatusActive,
		FilePath:    req.FilePath,
		FileSize:    req.FileSize,
		Version:     1,
		Tags:        req.Tags,
		IsPrivate:   req.IsPrivate,
		UploadedBy:  caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created", "document_id", doc.ID, "company_id", doc.CompanyID)

	activity := s.recorder.Record(ctx, caller, models.ActionCreated, "document", doc.ID, doc.Name, doc.ProjectID, "")
	notification := s.recorder.Notify(ctx, caller, "document_uploaded",
		"New document uploaded",
		fmt.Sprintf("%s uploaded %q", caller.Email, doc.Name),
		"document", doc.ID, nil)

	return &Mutation[*models.Document]{Record: doc, Activity: activity, Notification: notification}, nil
}

// Update merges the patch over the existing record. Immutable fields are
// re-pinned after the merge; a changed file path bumps the version and
// re-enters the approval workflow.
func (s *DocumentService) Update(ctx context.Context, caller models.AuthContext, id string, req *UpdateDocumentRequest) (*Mutation[*models.Document], error) {
	doc, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	orig := *doc

	if req.Name != nil {
		doc.Name = *req.Name
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.Category != nil {
		doc.Category = *req.Category
	}
	if req.Tags != nil {
		doc.Tags = *req.Tags
	}
	if req.IsPrivate != nil {
		doc.IsPrivate = *req.IsPrivate
	}
	if req.FileSize != nil {
		doc.FileSize = *req.FileSize
	}

	if req.Status != nil {
		if !models.ValidDocumentStatus(*req.Status) {
			return nil, domain.Validationf("invalid status %q", *req.Status)
		}
		doc.Status = *req.Status
		if doc.Status == models.DocumentStatusApproved {
			reviewer := caller.UserID
			doc.ReviewedBy = &reviewer
		}
	}

	// Replacing the file starts a new version pending review.
	if req.FilePath != nil && *req.FilePath != orig.FilePath {
		doc.FilePath = *req.FilePath
		doc.Version = orig.Version + 1
		doc.Status = models.DocumentStatusPending
		doc.ReviewedBy = nil
	}

	// Immutable fields survive any merge.
	doc.ID = orig.ID
	doc.CompanyID = orig.CompanyID
	doc.UploadedBy = orig.UploadedBy
	doc.CreatedAt = orig.CreatedAt
	doc.UpdatedAt = nowUTC()

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	activity := s.recorder.Record(ctx, caller, models.ActionUpdated, "document", doc.ID, doc.Name, doc.ProjectID, "")
	var notification *models.Notification
	if doc.Status == models.DocumentStatusApproved && orig.Status != models.DocumentStatusApproved {
		notification = s.recorder.Notify(ctx, caller, "document_approved",
			"Document approved",
			fmt.Sprintf("%q was approved", doc.Name),
			"document", doc.ID, []string{doc.UploadedBy})
	}

	return &Mutation[*models.Document]{Record: doc, Activity: activity, Notification: notification}, nil
}

// Delete removes a document unless it is approved and tagged critical.
func (s *DocumentService) Delete(ctx context.Context, caller models.AuthContext, id string) (*Mutation[*models.Document], error) {
	doc, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if doc.Status == models.DocumentStatusApproved && doc.HasTag(models.TagCritical) {
		return nil, &domain.StateConflictError{
			Message: "Cannot delete document",
			Details: "approved documents tagged critical cannot be deleted",
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("document deleted", "document_id", id)
	activity := s.recorder.Record(ctx, caller, models.ActionDeleted, "document", doc.ID, doc.Name, doc.ProjectID, "")
	return &Mutation[*models.Document]{Record: doc, Activity: activity}, nil
}
