package service

import (
	"context"
	"errors"
	"testing"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

func TestDocumentVersioning(t *testing.T) {
	env := newTestEnv()
	svc := NewDocumentService(env.stores.Documents, env.recorder, env.logger)
	caller := adminCaller()
	ctx := context.Background()

	created, err := svc.Create(ctx, caller, &CreateDocumentRequest{
		Name:      "Structural Drawings",
		CompanyID: "c1",
		ProjectID: "proj-1",
		FilePath:  "/files/drawings-v1.pdf",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	doc := created.Record
	if doc.Version != 1 {
		t.Errorf("Version = %d, want 1", doc.Version)
	}
	if doc.Status != models.DocumentStatusActive {
		t.Errorf("Status = %q, want active", doc.Status)
	}
	if created.Activity == nil {
		t.Error("Create() recorded no activity")
	}

	// Approve, then replace the file. The new version re-enters review.
	approved, err := svc.Update(ctx, caller, doc.ID, &UpdateDocumentRequest{
		Status: strPtr(models.DocumentStatusApproved),
	})
	if err != nil {
		t.Fatalf("Update(approve) error = %v", err)
	}
	if approved.Record.ReviewedBy == nil || *approved.Record.ReviewedBy != caller.UserID {
		t.Errorf("ReviewedBy = %v, want %q", approved.Record.ReviewedBy, caller.UserID)
	}
	if approved.Notification == nil {
		t.Error("approval produced no notification")
	}

	replaced, err := svc.Update(ctx, caller, doc.ID, &UpdateDocumentRequest{
		FilePath: strPtr("/files/drawings-v2.pdf"),
	})
	if err != nil {
		t.Fatalf("Update(file) error = %v", err)
	}
	if replaced.Record.Version != 2 {
		t.Errorf("Version after file replacement = %d, want 2", replaced.Record.Version)
	}
	if replaced.Record.Status != models.DocumentStatusPending {
		t.Errorf("Status after file replacement = %q, want pending", replaced.Record.Status)
	}
	if replaced.Record.ReviewedBy != nil {
		t.Errorf("ReviewedBy after file replacement = %v, want nil", replaced.Record.ReviewedBy)
	}

	// Same file path does not bump the version.
	same, err := svc.Update(ctx, caller, doc.ID, &UpdateDocumentRequest{
		FilePath: strPtr("/files/drawings-v2.pdf"),
	})
	if err != nil {
		t.Fatalf("Update(same file) error = %v", err)
	}
	if same.Record.Version != 2 {
		t.Errorf("Version after unchanged path = %d, want 2", same.Record.Version)
	}
}

func TestDocumentDeleteGuard(t *testing.T) {
	env := newTestEnv()
	svc := NewDocumentService(env.stores.Documents, env.recorder, env.logger)
	caller := adminCaller()
	ctx := context.Background()

	created, err := svc.Create(ctx, caller, &CreateDocumentRequest{
		Name:      "Safety Plan",
		CompanyID: "c1",
		Tags:      []string{models.TagCritical},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	id := created.Record.ID

	if _, err := svc.Update(ctx, caller, id, &UpdateDocumentRequest{
		Status: strPtr(models.DocumentStatusApproved),
	}); err != nil {
		t.Fatalf("Update(approve) error = %v", err)
	}

	_, err = svc.Delete(ctx, caller, id)
	var stateErr *domain.StateConflictError
	if !errors.As(err, &stateErr) {
		t.Fatalf("Delete() error = %v, want StateConflictError", err)
	}
	if stateErr.StatusCode() != 400 {
		t.Errorf("StatusCode() = %d, want 400", stateErr.StatusCode())
	}

	// Record must be untouched by the refused delete.
	if _, err := svc.Get(ctx, caller, id); err != nil {
		t.Fatalf("Get() after refused delete error = %v", err)
	}

	// Untagging lifts the guard.
	if _, err := svc.Update(ctx, caller, id, &UpdateDocumentRequest{
		Tags: &[]string{},
	}); err != nil {
		t.Fatalf("Update(untag) error = %v", err)
	}
	if _, err := svc.Delete(ctx, caller, id); err != nil {
		t.Fatalf("Delete() after untag error = %v", err)
	}
	if _, err := svc.Get(ctx, caller, id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want not found", err)
	}
}

func TestDocumentPrivateVisibility(t *testing.T) {
	env := newTestEnv()
	svc := NewDocumentService(env.stores.Documents, env.recorder, env.logger)
	ctx := context.Background()

	owner := models.AuthContext{UserID: "user-9", Email: "field@acme.test", Role: models.RoleUser, CompanyID: "c1"}
	if _, err := svc.Create(ctx, owner, &CreateDocumentRequest{
		Name: "Private Notes", CompanyID: "c1", IsPrivate: true,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	docs, _, err := svc.List(ctx, adminCaller(), repositories.ListFilter{CompanyID: "c1"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("List() for non-owner returned %d documents, want 0", len(docs))
	}

	docs, _, err = svc.List(ctx, owner, repositories.ListFilter{CompanyID: "c1"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("List() for owner returned %d documents, want 1", len(docs))
	}
}
