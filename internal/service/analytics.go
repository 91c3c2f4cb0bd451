package service

import (
	"context"
	"log/slog"
	"strings"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/scoring"
)

// AnalyticsService assembles performance metric groups on demand. Each group
// is computed only when requested so large companies do not pay for rollups
// they are not asking for.
type AnalyticsService struct {
	projects   repositories.ProjectRepository
	tasks      repositories.TaskRepository
	invoices   repositories.InvoiceRepository
	milestones repositories.MilestoneRepository
	logger     *slog.Logger
}

func NewAnalyticsService(
	projects repositories.ProjectRepository,
	tasks repositories.TaskRepository,
	invoices repositories.InvoiceRepository,
	milestones repositories.MilestoneRepository,
	logger *slog.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		projects:   projects,
		tasks:      tasks,
		invoices:   invoices,
		milestones: milestones,
		logger:     logger,
	}
}

// PerformanceRequest selects the scope and metric groups for a report.
// Scope is either "company" or a project id. Metrics is the comma separated
// `metrics` query value; empty means all groups.
type PerformanceRequest struct {
	Scope   string
	Metrics string
}

// PerformanceReport carries only the requested metric groups.
type PerformanceReport struct {
	Scope    string         `json:"scope"`
	Tasks    map[string]any `json:"tasks,omitempty"`
	Budget   map[string]any `json:"budget,omitempty"`
	Schedule map[string]any `json:"schedule,omitempty"`
	Team     map[string]any `json:"team,omitempty"`
}

// Performance computes the requested metric groups. Scope is required.
func (s *AnalyticsService) Performance(ctx context.Context, caller models.AuthContext, req PerformanceRequest) (*PerformanceReport, error) {
	if req.Scope == "" {
		return nil, domain.Validationf("scope is required")
	}

	filter := repositories.ListFilter{CompanyID: scopeCompany(caller, "")}
	if req.Scope != "company" {
		filter.ProjectID = req.Scope
	}

	groups := map[string]bool{}
	if req.Metrics == "" {
		groups["tasks"], groups["budget"], groups["schedule"], groups["team"] = true, true, true, true
	} else {
		for _, g := range strings.Split(req.Metrics, ",") {
			g = strings.TrimSpace(g)
			switch g {
			case "tasks", "budget", "schedule", "team":
				groups[g] = true
			case "":
			default:
				return nil, domain.Validationf("unknown metric group %q", g)
			}
		}
	}

	report := &PerformanceReport{Scope: req.Scope}

	if groups["tasks"] || groups["team"] {
		tasks, err := s.tasks.List(ctx, repositories.TaskFilter{ListFilter: filter})
		if err != nil {
			return nil, err
		}
		if groups["tasks"] {
			report.Tasks = taskMetrics(tasks)
		}
		if groups["team"] {
			report.Team = teamMetrics(tasks)
		}
	}
	if groups["budget"] {
		projects, err := s.projects.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		invoices, err := s.invoices.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		report.Budget = budgetMetrics(projects, invoices)
	}
	if groups["schedule"] {
		milestones, err := s.milestones.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		report.Schedule = scheduleMetrics(milestones)
	}

	return report, nil
}

func taskMetrics(tasks []models.Task) map[string]any {
	now := nowUTC()
	byStatus := map[string]int{}
	completed, overdue := 0, 0
	for _, t := range tasks {
		byStatus[t.Status]++
		if t.Status == models.TaskStatusCompleted {
			completed++
		} else if t.DueDate != nil && t.DueDate.Before(now) {
			overdue++
		}
	}
	rate := 0.0
	if len(tasks) > 0 {
		rate = scoring.Round2(float64(completed) / float64(len(tasks)) * 100)
	}
	return map[string]any{
		"total":           len(tasks),
		"by_status":       byStatus,
		"completed":       completed,
		"overdue":         overdue,
		"completion_rate": rate,
	}
}

func budgetMetrics(projects []models.Project, invoices []models.Invoice) map[string]any {
	var budget, invoiced, collected float64
	for _, p := range projects {
		budget += p.Budget
	}
	for _, inv := range invoices {
		invoiced += inv.Total
		collected += inv.PaidAmount
	}
	utilization := 0.0
	if budget > 0 {
		utilization = scoring.Round2(invoiced / budget * 100)
	}
	return map[string]any{
		"total_budget":    scoring.Round2(budget),
		"total_invoiced":  scoring.Round2(invoiced),
		"total_collected": scoring.Round2(collected),
		"outstanding":     scoring.Round2(invoiced - collected),
		"utilization_pct": utilization,
	}
}

func scheduleMetrics(milestones []models.Milestone) map[string]any {
	now := nowUTC()
	completed, delayed, atRisk := 0, 0, 0
	healthSum := 0
	for i := range milestones {
		m := &milestones[i]
		switch m.Status {
		case models.MilestoneStatusCompleted:
			completed++
		case models.MilestoneStatusDelayed:
			delayed++
		}
		h := scoring.MilestoneHealth(m, now)
		healthSum += h
		if h < 60 {
			atRisk++
		}
	}
	avg := 0.0
	if len(milestones) > 0 {
		avg = scoring.Round2(float64(healthSum) / float64(len(milestones)))
	}
	return map[string]any{
		"total":          len(milestones),
		"completed":      completed,
		"delayed":        delayed,
		"at_risk":        atRisk,
		"average_health": avg,
	}
}

func teamMetrics(tasks []models.Task) map[string]any {
	open := map[string]int{}
	done := map[string]int{}
	for _, t := range tasks {
		if t.AssignedTo == "" {
			continue
		}
		if t.Status == models.TaskStatusCompleted {
			done[t.AssignedTo]++
		} else {
			open[t.AssignedTo]++
		}
	}
	members := map[string]bool{}
	for u := range open {
		members[u] = true
	}
	for u := range done {
		members[u] = true
	}
	avgLoad := 0.0
	if len(members) > 0 {
		total := 0
		for _, n := range open {
			total += n
		}
		avgLoad = scoring.Round2(float64(total) / float64(len(members)))
	}
	return map[string]any{
		"members":         len(members),
		"open_by_member":  open,
		"done_by_member":  done,
		"average_load":    avgLoad,
		"top_contributor": topN(done, 1),
	}
}
