package service

import (
	"context"
	"log/slog"

	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/insights"
	"sitework/internal/scoring"
)

// InsightService computes portfolio metrics from the current collections and
// runs them through the static decision table. No model inference is
// involved.
type InsightService struct {
	registry   *insights.Registry
	projects   repositories.ProjectRepository
	tasks      repositories.TaskRepository
	invoices   repositories.InvoiceRepository
	milestones repositories.MilestoneRepository
	logger     *slog.Logger
}

func NewInsightService(
	registry *insights.Registry,
	projects repositories.ProjectRepository,
	tasks repositories.TaskRepository,
	invoices repositories.InvoiceRepository,
	milestones repositories.MilestoneRepository,
	logger *slog.Logger,
) *InsightService {
	return &InsightService{
		registry:   registry,
		projects:   projects,
		tasks:      tasks,
		invoices:   invoices,
		milestones: milestones,
		logger:     logger,
	}
}

// InsightReport is the /api/ai/insights payload.
type InsightReport struct {
	Metrics            map[string]float64 `json:"metrics"`
	Insights           []insights.Insight `json:"insights"`
	SuccessProbability float64            `json:"success_probability"`
	SubScores          map[string]float64 `json:"sub_scores"`
}

// Report computes current metrics for the caller's company, evaluates the
// rule table and derives the weighted success probability.
func (s *InsightService) Report(ctx context.Context, caller models.AuthContext, projectID string) (*InsightReport, error) {
	companyID := scopeCompany(caller, "")

	projects, err := s.projects.List(ctx, repositories.ListFilter{CompanyID: companyID, ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx, repositories.TaskFilter{ListFilter: repositories.ListFilter{CompanyID: companyID, ProjectID: projectID}})
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List(ctx, repositories.ListFilter{CompanyID: companyID, ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestones.List(ctx, repositories.ListFilter{CompanyID: companyID, ProjectID: projectID})
	if err != nil {
		return nil, err
	}

	metrics := s.computeMetrics(projects, tasks, invoices, milestones)
	triggered := s.registry.Evaluate(metrics)

	sub := subScores(metrics, milestones)
	w := s.registry.SuccessWeights()
	probability := scoring.SuccessProbability(sub["budget"], sub["schedule"], sub["quality"], sub["team"], w)

	s.logger.Debug("insight report computed",
		"company_id", companyID, "insights", len(triggered), "success_probability", probability)

	return &InsightReport{
		Metrics:            metrics,
		Insights:           triggered,
		SuccessProbability: probability,
		SubScores:          sub,
	}, nil
}

func (s *InsightService) computeMetrics(
	projects []models.Project,
	tasks []models.Task,
	invoices []models.Invoice,
	milestones []models.Milestone,
) map[string]float64 {
	now := nowUTC()

	var budget, spent float64
	for _, p := range projects {
		budget += p.Budget
	}
	for _, inv := range invoices {
		spent += inv.Total
	}
	budgetUtilization := 0.0
	if budget > 0 {
		budgetUtilization = scoring.Round2(spent / budget * 100)
	}

	// Schedule performance index: earned progress over planned progress
	// across open milestones. 1.0 means on plan.
	var earned, planned float64
	for _, m := range milestones {
		if m.Status == models.MilestoneStatusCompleted {
			earned += 100
			planned += 100
			continue
		}
		earned += float64(m.Progress)
		if m.DueDate != nil && m.DueDate.Before(now) {
			planned += 100
		} else {
			planned += 50
		}
	}
	spi := 1.0
	if planned > 0 {
		spi = scoring.Round2(earned / planned)
	}

	overdue := 0
	open := map[string]int{}
	for _, t := range tasks {
		if t.Status == models.TaskStatusCompleted {
			continue
		}
		if t.DueDate != nil && t.DueDate.Before(now) {
			overdue++
		}
		if t.AssignedTo != "" {
			open[t.AssignedTo]++
		}
	}

	// Team utilization: open tasks per assignee against a five-task healthy
	// load, expressed as a percentage.
	teamUtilization := 0.0
	if len(open) > 0 {
		total := 0
		for _, n := range open {
			total += n
		}
		teamUtilization = scoring.Round2(float64(total) / float64(len(open)) / 5 * 100)
	}

	outstanding := 0
	for _, inv := range invoices {
		if inv.Balance > 0 && inv.Status != models.InvoiceStatusCancelled {
			outstanding++
		}
	}

	return map[string]float64{
		"budget_utilization":         budgetUtilization,
		"schedule_performance_index": spi,
		"team_utilization":           teamUtilization,
		"overdue_tasks":              float64(overdue),
		"outstanding_invoices":       float64(outstanding),
	}
}

// subScores maps raw metrics onto the four 0-100 sub-scores feeding the
// success probability.
func subScores(metrics map[string]float64, milestones []models.Milestone) map[string]float64 {
	budget := 100.0
	if u := metrics["budget_utilization"]; u > 100 {
		budget = 40
	} else if u > 90 {
		budget = 70
	}

	schedule := clampScore(metrics["schedule_performance_index"] * 100)

	quality := 100.0
	healthSum, count := 0, 0
	now := nowUTC()
	for i := range milestones {
		healthSum += scoring.MilestoneHealth(&milestones[i], now)
		count++
	}
	if count > 0 {
		quality = float64(healthSum) / float64(count)
	}

	team := clampScore(100 - metrics["team_utilization"] + 50)

	return map[string]float64{
		"budget":   scoring.Round2(budget),
		"schedule": scoring.Round2(schedule),
		"quality":  scoring.Round2(quality),
		"team":     scoring.Round2(team),
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
