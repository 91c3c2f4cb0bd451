package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/events"
	"sitework/internal/repository/memory"
)

func newAutomationEnv(t *testing.T) (*AutomationService, *memory.AutomationStore, *testEnv) {
	t.Helper()
	env := newTestEnv()
	store := memory.NewAutomationStore()
	return NewAutomationService(store, env.recorder, env.logger), store, env
}

func TestAutomationCreateValidatesSchedule(t *testing.T) {
	svc, _, _ := newAutomationEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	rule, err := svc.Create(ctx, caller, &CreateAutomationRequest{
		Name:        "Nightly invoice check",
		CompanyID:   "c1",
		TriggerType: models.TriggerSchedule,
		Schedule:    "0 2 * * *",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rule.ID == "" || !rule.Enabled {
		t.Errorf("rule = %+v, want generated id and enabled default", rule)
	}

	tests := []struct {
		name string
		req  CreateAutomationRequest
	}{
		{
			name: "schedule trigger without schedule",
			req: CreateAutomationRequest{
				Name: "x", CompanyID: "c1", TriggerType: models.TriggerSchedule,
			},
		},
		{
			name: "invalid cron expression",
			req: CreateAutomationRequest{
				Name: "x", CompanyID: "c1", TriggerType: models.TriggerSchedule,
				Schedule: "99 99 * * *",
			},
		},
		{
			name: "missing name",
			req: CreateAutomationRequest{
				CompanyID: "c1", TriggerType: models.TriggerEvent,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, caller, &tt.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Create() error = %v, want validation error", err)
			}
		})
	}
}

func TestAutomationTestRun(t *testing.T) {
	svc, _, _ := newAutomationEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	rule, err := svc.Create(ctx, caller, &CreateAutomationRequest{
		Name: "On task completion", CompanyID: "c1",
		TriggerType:   models.TriggerEvent,
		TriggerConfig: json.RawMessage(`{"event_type":"task.completed"}`),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	run, err := svc.Test(ctx, caller, rule.ID)
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	if !run.Synthetic {
		t.Error("Synthetic = false, want true")
	}
	if run.Status != "success" {
		t.Errorf("Status = %q, want success", run.Status)
	}

	runs, err := svc.Runs(ctx, caller, rule.ID)
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Errorf("Runs() = %+v, want the synthetic run", runs)
	}
}

func TestAutomationHandleEvent(t *testing.T) {
	svc, _, _ := newAutomationEnv(t)
	caller := adminCaller()
	ctx := context.Background()

	makeRule := func(name, eventType string, enabled bool) *models.AutomationRule {
		t.Helper()
		rule, err := svc.Create(ctx, caller, &CreateAutomationRequest{
			Name: name, CompanyID: "c1",
			TriggerType:   models.TriggerEvent,
			TriggerConfig: json.RawMessage(`{"event_type":"` + eventType + `"}`),
			Enabled:       &enabled,
		})
		if err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
		return rule
	}

	exact := makeRule("exact match", "task.completed", true)
	wildcard := makeRule("wildcard match", "task.*", true)
	other := makeRule("other event", "invoice.paid", true)
	disabled := makeRule("disabled", "task.completed", false)

	svc.HandleEvent(ctx, events.Event{
		ID: "ev-1", Type: "task.completed", CompanyID: "c1",
		EntityType: "task", EntityID: "task-1",
	})

	wantRuns := map[string]int{exact.ID: 1, wildcard.ID: 1, other.ID: 0, disabled.ID: 0}
	for id, want := range wantRuns {
		runs, err := svc.Runs(ctx, caller, id)
		if err != nil {
			t.Fatalf("Runs(%s) error = %v", id, err)
		}
		if len(runs) != want {
			t.Errorf("rule %s ran %d times, want %d", id, len(runs), want)
		}
	}
}

func TestAutomationScopedToCompany(t *testing.T) {
	svc, _, _ := newAutomationEnv(t)
	ctx := context.Background()

	admin := adminCaller()
	if _, err := svc.Create(ctx, admin, &CreateAutomationRequest{
		Name: "C1 rule", CompanyID: "c1", TriggerType: models.TriggerEvent,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	outsider := models.AuthContext{UserID: "u9", Role: models.RoleCompanyAdmin, CompanyID: "c2"}
	rules, err := svc.List(ctx, outsider)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("List() for other company = %d rules, want 0", len(rules))
	}
}
