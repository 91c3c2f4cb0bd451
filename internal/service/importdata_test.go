package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"sitework/internal/domain"
	"sitework/internal/domain/repositories"
)

func newImportEnv(t *testing.T) (*ImportService, *TaskService, *ProjectService, *testEnv) {
	t.Helper()
	env := newTestEnv()
	tasks := NewTaskService(env.stores.Tasks, env.recorder, env.logger)
	projects := NewProjectService(env.stores.Projects, env.recorder, env.logger)
	return NewImportService(tasks, projects, env.logger), tasks, projects, env
}

func TestImportTasksCSV(t *testing.T) {
	svc, tasks, _, _ := newImportEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	csv := "title,priority,status\n" +
		"Pour footings,high,todo\n" +
		",medium,todo\n" +
		"Backfill trench,low,todo\n"
	payload, _ := json.Marshal(csv)

	result, err := svc.Import(ctx, caller, ImportRequest{
		EntityType: ImportEntityTasks,
		Format:     "csv",
		Data:       payload,
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 2 {
		t.Errorf("Errors = %+v, want one error at row 2", result.Errors)
	}

	created, _, err := tasks.List(ctx, caller, repositories.TaskFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(created) != 2 {
		t.Errorf("stored tasks = %d, want 2", len(created))
	}
}

func TestImportDryRunPersistsNothing(t *testing.T) {
	svc, tasks, _, _ := newImportEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	payload, _ := json.Marshal([]map[string]string{{"title": "Set forms"}})
	result, err := svc.Import(ctx, caller, ImportRequest{
		EntityType: ImportEntityTasks,
		Format:     "json",
		DryRun:     true,
		Data:       payload,
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}

	stored, _, err := tasks.List(ctx, caller, repositories.TaskFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("stored tasks after dry run = %d, want 0", len(stored))
	}
}

func TestImportRejectsBadRequests(t *testing.T) {
	svc, _, _, _ := newImportEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	tests := []struct {
		name string
		req  ImportRequest
	}{
		{
			name: "unknown entity type",
			req: ImportRequest{
				EntityType: "vendors", Format: "json",
				Data: json.RawMessage(`[{"name":"x"}]`),
			},
		},
		{
			name: "unknown format",
			req: ImportRequest{
				EntityType: ImportEntityTasks, Format: "xml",
				Data: json.RawMessage(`[]`),
			},
		},
		{
			name: "csv without data rows",
			req: ImportRequest{
				EntityType: ImportEntityTasks, Format: "csv",
				Data: json.RawMessage(`"title,priority"`),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Import(ctx, caller, tt.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Import() error = %v, want validation error", err)
			}
		})
	}
}

func TestImportClientsValidatedOnly(t *testing.T) {
	svc, _, _, _ := newImportEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	payload, _ := json.Marshal([]map[string]string{
		{"name": "Acme Paving", "email": "ap@acme.test"},
		{"name": "No Email Co"},
	})
	result, err := svc.Import(ctx, caller, ImportRequest{
		EntityType: ImportEntityClients,
		Format:     "json",
		Data:       payload,
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Imported != 1 || result.Failed != 1 {
		t.Errorf("result = %d imported / %d failed, want 1/1", result.Imported, result.Failed)
	}
}
