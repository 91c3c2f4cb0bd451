package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitework/internal/config"
	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/repository/memory"
	"sitework/internal/scoring"
)

// MilestoneService implements milestone CRUD: health scoring on every read
// and mutation, the acyclic-dependency check, and the delete guards for
// completed milestones and milestones with dependents.
type MilestoneService struct {
	repo     repositories.MilestoneRepository
	recorder *Recorder
	logger   *slog.Logger
}

func NewMilestoneService(repo repositories.MilestoneRepository, recorder *Recorder, logger *slog.Logger) *MilestoneService {
	return &MilestoneService{repo: repo, recorder: recorder, logger: logger}
}

type CreateMilestoneRequest struct {
	Name         string     `json:"name"`
	CompanyID    string     `json:"company_id"`
	ProjectID    string     `json:"project_id"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"due_date"`
	Budget       float64    `json:"budget"`
	Dependencies []string   `json:"dependencies"`
}

func (r CreateMilestoneRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, config.MaxNameLength)),
		validation.Field(&r.CompanyID, validation.Required.Error("company_id is required")),
		validation.Field(&r.ProjectID, validation.Required.Error("project_id is required")),
		validation.Field(&r.Budget, validation.Min(0.0).Error("budget cannot be negative")),
	)
}

type UpdateMilestoneRequest struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	DueDate      *time.Time `json:"due_date"`
	Progress     *int       `json:"progress"`
	Budget       *float64   `json:"budget"`
	ActualCost   *float64   `json:"actual_cost"`
	Dependencies *[]string  `json:"dependencies"`
}

// MilestoneSummary is the aggregate returned with list results.
type MilestoneSummary struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	AverageHealth float64        `json:"average_health"`
	AtRisk        int            `json:"at_risk"`
}

// List returns milestones with health scores recomputed at read time.
func (s *MilestoneService) List(ctx context.Context, caller models.AuthContext, filter repositories.ListFilter) ([]models.Milestone, *MilestoneSummary, error) {
	filter.CompanyID = scopeCompany(caller, filter.CompanyID)

	milestones, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	now := nowUTC()
	summary := &MilestoneSummary{Total: len(milestones), ByStatus: map[string]int{}}
	healthSum := 0
	for i := range milestones {
		milestones[i].HealthScore = scoring.MilestoneHealth(&milestones[i], now)
		summary.ByStatus[milestones[i].Status]++
		healthSum += milestones[i].HealthScore
		if milestones[i].HealthScore < 60 {
			summary.AtRisk++
		}
	}
	if len(milestones) > 0 {
		summary.AverageHealth = scoring.Round2(float64(healthSum) / float64(len(milestones)))
	}

	return milestones, summary, nil
}

func (s *MilestoneService) Get(ctx context.Context, caller models.AuthContext, id string) (*models.Milestone, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, m.CompanyID, "milestone"); err != nil {
		return nil, err
	}
	m.HealthScore = scoring.MilestoneHealth(m, nowUTC())
	return m, nil
}

func (s *MilestoneService) Create(ctx context.Context, caller models.AuthContext, req *CreateMilestoneRequest) (*Mutation[*models.Milestone], error) {
	if !caller.IsSuperAdmin() {
		req.CompanyID = caller.CompanyID
	}
	if err := req.Validate(); err != nil {
		return nil, domain.Validationf("%v", err)
	}
	status := req.Status
	if status == "" {
		status = models.MilestoneStatusPending
	}
	if !models.ValidMilestoneStatus(status) {
		return nil, domain.Validationf("invalid status %q", status)
	}

	if err := s.validateDependencies(ctx, caller, "", req.Dependencies); err != nil {
		return nil, err
	}

	now := nowUTC()
	m := &models.Milestone{
		ID:           memory.NewID("ms"),
		CompanyID:    req.CompanyID,
		ProjectID:    req.ProjectID,
		Name:         req.Name,
		Description:  req.Description,
		Status:       status,
		DueDate:      req.DueDate,
		Budget:       req.Budget,
		Dependencies: req.Dependencies,
		CreatedBy:    caller.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.HealthScore = scoring.MilestoneHealth(m, now)

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("milestone created", "milestone_id", m.ID, "project_id", m.ProjectID)
	activity := s.recorder.Record(ctx, caller, models.ActionCreated, "milestone", m.ID, m.Name, m.ProjectID, "")
	return &Mutation[*models.Milestone]{Record: m, Activity: activity}, nil
}

// Update merges the patch, rejects dependency cycles and recomputes health.
func (s *MilestoneService) Update(ctx context.Context, caller models.AuthContext, id string, req *UpdateMilestoneRequest) (*Mutation[*models.Milestone], error) {
	m, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	orig := *m

	if req.Dependencies != nil {
		if err := s.validateDependencies(ctx, caller, id, *req.Dependencies); err != nil {
			return nil, err
		}
		m.Dependencies = *req.Dependencies
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Status != nil {
		if !models.ValidMilestoneStatus(*req.Status) {
			return nil, domain.Validationf("invalid status %q", *req.Status)
		}
		m.Status = *req.Status
		if m.Status == models.MilestoneStatusCompleted {
			m.Progress = 100
		}
	}
	if req.DueDate != nil {
		m.DueDate = req.DueDate
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, domain.Validationf("progress must be between 0 and 100")
		}
		m.Progress = *req.Progress
	}
	if req.Budget != nil {
		m.Budget = *req.Budget
	}
	if req.ActualCost != nil {
		m.ActualCost = *req.ActualCost
	}

	m.ID = orig.ID
	m.CompanyID = orig.CompanyID
	m.CreatedBy = orig.CreatedBy
	m.CreatedAt = orig.CreatedAt
	m.UpdatedAt = nowUTC()
	m.HealthScore = scoring.MilestoneHealth(m, m.UpdatedAt)

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	activity := s.recorder.Record(ctx, caller, models.ActionUpdated, "milestone", m.ID, m.Name, m.ProjectID, "")
	var notification *models.Notification
	if m.Status == models.MilestoneStatusCompleted && orig.Status != models.MilestoneStatusCompleted {
		notification = s.recorder.Notify(ctx, caller, "milestone_completed",
			"Milestone completed", m.Name, "milestone", m.ID, nil)
	}

	return &Mutation[*models.Milestone]{Record: m, Activity: activity, Notification: notification}, nil
}

// Delete removes a milestone unless it is completed or another milestone
// depends on it.
func (s *MilestoneService) Delete(ctx context.Context, caller models.AuthContext, id string) (*Mutation[*models.Milestone], error) {
	m, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if m.Status == models.MilestoneStatusCompleted {
		return nil, &domain.StateConflictError{
			Message: "Cannot delete milestone",
			Details: "completed milestones cannot be deleted",
		}
	}

	all, err := s.repo.List(ctx, repositories.ListFilter{CompanyID: m.CompanyID})
	if err != nil {
		return nil, err
	}
	for _, other := range all {
		for _, dep := range other.Dependencies {
			if dep == id {
				return nil, &domain.StateConflictError{
					Message: "Cannot delete milestone",
					Details: fmt.Sprintf("milestone %q depends on it", other.Name),
				}
			}
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	activity := s.recorder.Record(ctx, caller, models.ActionDeleted, "milestone", m.ID, m.Name, m.ProjectID, "")
	return &Mutation[*models.Milestone]{Record: m, Activity: activity}, nil
}

// validateDependencies checks that every referenced milestone exists and that
// the new dependency list keeps the graph acyclic.
func (s *MilestoneService) validateDependencies(ctx context.Context, caller models.AuthContext, id string, deps []string) error {
	if len(deps) == 0 {
		return nil
	}
	for _, dep := range deps {
		if dep == id {
			return domain.Validationf("milestone cannot depend on itself")
		}
		if _, err := s.repo.GetByID(ctx, dep); err != nil {
			return domain.Validationf("dependency %q does not exist", dep)
		}
	}

	all, err := s.repo.List(ctx, repositories.ListFilter{CompanyID: scopeCompany(caller, "")})
	if err != nil {
		return err
	}
	if id != "" && scoring.HasDependencyCycle(id, deps, all) {
		return domain.Validationf("dependency update would introduce a cycle")
	}
	return nil
}
