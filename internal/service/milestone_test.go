package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
)

func TestMilestoneDependencyCycleRejected(t *testing.T) {
	env := newTestEnv()
	svc := NewMilestoneService(env.stores.Milestones, env.recorder, env.logger)
	caller := adminCaller()
	ctx := context.Background()

	first, err := svc.Create(ctx, caller, &CreateMilestoneRequest{
		Name: "Foundation", CompanyID: "c1", ProjectID: "proj-1",
	})
	if err != nil {
		t.Fatalf("Create(first) error = %v", err)
	}
	second, err := svc.Create(ctx, caller, &CreateMilestoneRequest{
		Name: "Framing", CompanyID: "c1", ProjectID: "proj-1",
		Dependencies: []string{first.Record.ID},
	})
	if err != nil {
		t.Fatalf("Create(second) error = %v", err)
	}

	// Closing the loop back to the first milestone must be refused.
	_, err = svc.Update(ctx, caller, first.Record.ID, &UpdateMilestoneRequest{
		Dependencies: &[]string{second.Record.ID},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Update() error = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("Update() error = %q, want mention of cycle", err)
	}

	// Unchanged after the refused update.
	got, err := svc.Get(ctx, caller, first.Record.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want empty", got.Dependencies)
	}
}

func TestMilestoneDependencyValidation(t *testing.T) {
	env := newTestEnv()
	svc := NewMilestoneService(env.stores.Milestones, env.recorder, env.logger)
	caller := adminCaller()
	ctx := context.Background()

	_, err := svc.Create(ctx, caller, &CreateMilestoneRequest{
		Name: "Roofing", CompanyID: "c1", ProjectID: "proj-1",
		Dependencies: []string{"ms-missing"},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Create() with unknown dependency error = %v, want validation error", err)
	}
}

func TestMilestoneDeleteGuards(t *testing.T) {
	env := newTestEnv()
	svc := NewMilestoneService(env.stores.Milestones, env.recorder, env.logger)
	caller := adminCaller()
	ctx := context.Background()

	base, err := svc.Create(ctx, caller, &CreateMilestoneRequest{
		Name: "Sitework", CompanyID: "c1", ProjectID: "proj-1",
	})
	if err != nil {
		t.Fatalf("Create(base) error = %v", err)
	}
	dependent, err := svc.Create(ctx, caller, &CreateMilestoneRequest{
		Name: "Foundation", CompanyID: "c1", ProjectID: "proj-1",
		Dependencies: []string{base.Record.ID},
	})
	if err != nil {
		t.Fatalf("Create(dependent) error = %v", err)
	}

	// A milestone other milestones depend on cannot be deleted.
	_, err = svc.Delete(ctx, caller, base.Record.ID)
	var stateErr *domain.StateConflictError
	if !errors.As(err, &stateErr) {
		t.Fatalf("Delete(base) error = %v, want StateConflictError", err)
	}
	if stateErr.StatusCode() != 400 {
		t.Errorf("StatusCode() = %d, want 400", stateErr.StatusCode())
	}
	if _, err := svc.Get(ctx, caller, base.Record.ID); err != nil {
		t.Fatalf("Get() after refused delete error = %v", err)
	}

	// Completed milestones cannot be deleted either.
	if _, err := svc.Update(ctx, caller, dependent.Record.ID, &UpdateMilestoneRequest{
		Status: strPtr(models.MilestoneStatusCompleted),
	}); err != nil {
		t.Fatalf("Update(complete) error = %v", err)
	}
	if _, err := svc.Delete(ctx, caller, dependent.Record.ID); !errors.As(err, &stateErr) {
		t.Errorf("Delete(completed) error = %v, want StateConflictError", err)
	}
}

func TestMilestoneCompletionSetsProgress(t *testing.T) {
	env := newTestEnv()
	svc := NewMilestoneService(env.stores.Milestones, env.recorder, env.logger)
	caller := adminCaller()
	ctx := context.Background()

	created, err := svc.Create(ctx, caller, &CreateMilestoneRequest{
		Name: "Inspection", CompanyID: "c1", ProjectID: "proj-1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, caller, created.Record.ID, &UpdateMilestoneRequest{
		Status: strPtr(models.MilestoneStatusCompleted),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Record.Progress != 100 {
		t.Errorf("Progress = %d, want 100", updated.Record.Progress)
	}
	if updated.Record.HealthScore != 100 {
		t.Errorf("HealthScore = %d, want 100", updated.Record.HealthScore)
	}
	if updated.Notification == nil {
		t.Error("completion produced no notification")
	}
}
