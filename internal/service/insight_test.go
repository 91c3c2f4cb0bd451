package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sitework/internal/domain/models"
	"sitework/internal/insights"
)

func newInsightEnv(t *testing.T) (*InsightService, *testEnv) {
	t.Helper()
	env := newTestEnv()
	registry, err := insights.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	svc := NewInsightService(registry, env.stores.Projects, env.stores.Tasks,
		env.stores.Invoices, env.stores.Milestones, env.logger)
	return svc, env
}

func TestInsightReportEmptyCompany(t *testing.T) {
	svc, _ := newInsightEnv(t)

	report, err := svc.Report(context.Background(), adminCaller(), "")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if len(report.Insights) != 0 {
		t.Errorf("Insights = %v, want none for empty data", report.Insights)
	}
	if report.Metrics["budget_utilization"] != 0 {
		t.Errorf("budget_utilization = %v, want 0", report.Metrics["budget_utilization"])
	}
	if report.Metrics["schedule_performance_index"] != 1 {
		t.Errorf("schedule_performance_index = %v, want 1", report.Metrics["schedule_performance_index"])
	}
	for _, key := range []string{"budget", "schedule", "quality", "team"} {
		if _, ok := report.SubScores[key]; !ok {
			t.Errorf("SubScores missing %q", key)
		}
	}
	if report.SuccessProbability <= 0 || report.SuccessProbability > 100 {
		t.Errorf("SuccessProbability = %v, want within (0, 100]", report.SuccessProbability)
	}
}

func TestInsightReportBudgetOverrun(t *testing.T) {
	svc, env := newInsightEnv(t)

	env.stores.Projects.Insert(models.Project{
		ID: "proj-1", CompanyID: "c1", Name: "Quarry Access Road",
		Status: models.ProjectStatusActive, Budget: 100000,
	})
	env.stores.Invoices.Insert(models.Invoice{
		ID: "inv-1", CompanyID: "c1", ProjectID: "proj-1",
		InvoiceNumber: "INV-100", Status: models.InvoiceStatusPaid, Total: 120000,
	})

	report, err := svc.Report(context.Background(), adminCaller(), "proj-1")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if report.Metrics["budget_utilization"] != 120 {
		t.Errorf("budget_utilization = %v, want 120", report.Metrics["budget_utilization"])
	}

	ids := map[string]bool{}
	for _, ins := range report.Insights {
		ids[ins.ID] = true
	}
	if !ids["budget-overrun"] || !ids["budget-critical"] {
		t.Errorf("insight ids = %v, want budget-overrun and budget-critical", ids)
	}
	if report.SubScores["budget"] != 40 {
		t.Errorf("budget sub-score = %v, want 40", report.SubScores["budget"])
	}
}

func TestInsightReportOverdueTasks(t *testing.T) {
	svc, env := newInsightEnv(t)
	past := time.Now().UTC().Add(-48 * time.Hour)

	for i := 0; i < 6; i++ {
		env.stores.Tasks.Insert(models.Task{
			ID: fmt.Sprintf("task-%d", i), CompanyID: "c1", ProjectID: "proj-1",
			Title: "Punch item", Status: models.TaskStatusTodo,
			AssignedTo: "user-3", DueDate: &past,
		})
	}

	report, err := svc.Report(context.Background(), adminCaller(), "proj-1")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if report.Metrics["overdue_tasks"] != 6 {
		t.Errorf("overdue_tasks = %v, want 6", report.Metrics["overdue_tasks"])
	}
	if report.Metrics["team_utilization"] != 120 {
		t.Errorf("team_utilization = %v, want 120", report.Metrics["team_utilization"])
	}

	ids := map[string]bool{}
	for _, ins := range report.Insights {
		ids[ins.ID] = true
	}
	if !ids["overdue-tasks"] || !ids["team-overloaded"] {
		t.Errorf("insight ids = %v, want overdue-tasks and team-overloaded", ids)
	}
}
