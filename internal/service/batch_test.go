package service

import (
	"context"
	"errors"
	"testing"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
)

func newBatchEnv(t *testing.T) (*BatchService, *DocumentService, *TaskService, *testEnv) {
	t.Helper()
	env := newTestEnv()
	docs := NewDocumentService(env.stores.Documents, env.recorder, env.logger)
	tasks := NewTaskService(env.stores.Tasks, env.recorder, env.logger)
	return NewBatchService(docs, tasks, env.logger), docs, tasks, env
}

func TestBatchUnknownOperation(t *testing.T) {
	batch, _, _, _ := newBatchEnv(t)

	_, err := batch.Documents(context.Background(), adminCaller(), &BatchRequest{
		Operation: "explode",
		IDs:       []string{"doc-1"},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Documents() error = %v, want validation error", err)
	}
}

func TestBatchEmptyMatchSet(t *testing.T) {
	batch, _, _, _ := newBatchEnv(t)
	ctx := context.Background()

	_, err := batch.Documents(ctx, adminCaller(), &BatchRequest{Operation: BatchArchive})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Documents() on empty store error = %v, want not found", err)
	}

	_, err = batch.Tasks(ctx, adminCaller(), &BatchRequest{Operation: BatchDelete})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Tasks() on empty store error = %v, want not found", err)
	}
}

func TestBatchTasksChangeStatus(t *testing.T) {
	batch, _, tasks, _ := newBatchEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"Pour slab", "Strip forms"} {
		created, err := tasks.Create(ctx, caller, &CreateTaskRequest{
			Title: title, CompanyID: "c1", ProjectID: "proj-1",
		})
		if err != nil {
			t.Fatalf("Create(%q) error = %v", title, err)
		}
		ids = append(ids, created.Record.ID)
	}

	result, err := batch.Tasks(ctx, caller, &BatchRequest{
		Operation: BatchChangeStatus,
		IDs:       ids,
		Status:    models.TaskStatusCompleted,
	})
	if err != nil {
		t.Fatalf("Tasks() error = %v", err)
	}
	if result.Success != 2 || result.Failed != 0 {
		t.Errorf("result = %d success / %d failed, want 2/0", result.Success, result.Failed)
	}

	for _, id := range ids {
		task, err := tasks.Get(ctx, caller, id)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", id, err)
		}
		if task.Status != models.TaskStatusCompleted {
			t.Errorf("task %s status = %q, want completed", id, task.Status)
		}
	}
}

func TestBatchPartialFailure(t *testing.T) {
	batch, docs, _, _ := newBatchEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	created, err := docs.Create(ctx, caller, &CreateDocumentRequest{
		Name: "Permit", CompanyID: "c1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	result, err := batch.Documents(ctx, caller, &BatchRequest{
		Operation: BatchArchive,
		IDs:       []string{created.Record.ID, "doc-missing"},
	})
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if result.Success != 1 || result.Failed != 1 {
		t.Errorf("result = %d success / %d failed, want 1/1", result.Success, result.Failed)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Errors = %v, want one entry", result.Errors)
	}
}
