package service

import (
	"context"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitework/internal/config"
	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/repository/memory"
)

// ProjectService implements project CRUD.
type ProjectService struct {
	repo     repositories.ProjectRepository
	recorder *Recorder
	logger   *slog.Logger
}

func NewProjectService(repo repositories.ProjectRepository, recorder *Recorder, logger *slog.Logger) *ProjectService {
	return &ProjectService{repo: repo, recorder: recorder, logger: logger}
}

type CreateProjectRequest struct {
	Name        string     `json:"name"`
	CompanyID   string     `json:"company_id"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Budget      float64    `json:"budget"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Tags        []string   `json:"tags"`
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, config.MaxNameLength)),
		validation.Field(&r.CompanyID, validation.Required.Error("company_id is required")),
		validation.Field(&r.Budget, validation.Min(0.0).Error("budget cannot be negative")),
	)
}

type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Budget      *float64   `json:"budget"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Tags        *[]string  `json:"tags"`
}

// ProjectSummary is the aggregate returned with list results.
type ProjectSummary struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	TotalBudget float64        `json:"total_budget"`
}

func (s *ProjectService) List(ctx context.Context, caller models.AuthContext, filter repositories.ListFilter) ([]models.Project, *ProjectSummary, error) {
	filter.CompanyID = scopeCompany(caller, filter.CompanyID)

	projects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	summary := &ProjectSummary{Total: len(projects), ByStatus: map[string]int{}}
	for _, p := range projects {
		summary.ByStatus[p.Status]++
		summary.TotalBudget += p.Budget
	}

	return projects, summary, nil
}

func (s *ProjectService) Get(ctx context.Context, caller models.AuthContext, id string) (*models.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, p.CompanyID, "project"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Create(ctx context.Context, caller models.AuthContext, req *CreateProjectRequest) (*Mutation[*models.Project], error) {
	if !caller.IsSuperAdmin() {
		req.CompanyID = caller.CompanyID
	}
	if err := req.Validate(); err != nil {
		return nil, domain.Validationf("%v", err)
	}
	status := req.Status
	if status == "" {
		status = models.ProjectStatusPlanning
	}
	if !models.ValidProjectStatus(status) {
		return nil, domain.Validationf("invalid status %q", status)
	}

	now := nowUTC()
	p := &models.Project{
		ID:          memory.NewID("proj"),
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Tags:        req.Tags,
		CreatedBy:   caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("project created", "project_id", p.ID, "company_id", p.CompanyID)
	activity := s.recorder.Record(ctx, caller, models.ActionCreated, "project", p.ID, p.Name, p.ID, "")
	return &Mutation[*models.Project]{Record: p, Activity: activity}, nil
}

func (s *ProjectService) Update(ctx context.Context, caller models.AuthContext, id string, req *UpdateProjectRequest) (*Mutation[*models.Project], error) {
	p, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	orig := *p

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Status != nil {
		if !models.ValidProjectStatus(*req.Status) {
			return nil, domain.Validationf("invalid status %q", *req.Status)
		}
		p.Status = *req.Status
	}
	if req.Budget != nil {
		p.Budget = *req.Budget
	}
	if req.StartDate != nil {
		p.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = req.EndDate
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}

	p.ID = orig.ID
	p.CompanyID = orig.CompanyID
	p.CreatedBy = orig.CreatedBy
	p.CreatedAt = orig.CreatedAt
	p.UpdatedAt = nowUTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	activity := s.recorder.Record(ctx, caller, models.ActionUpdated, "project", p.ID, p.Name, p.ID, "")
	return &Mutation[*models.Project]{Record: p, Activity: activity}, nil
}

func (s *ProjectService) Delete(ctx context.Context, caller models.AuthContext, id string) (*Mutation[*models.Project], error) {
	p, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("project deleted", "project_id", id)
	activity := s.recorder.Record(ctx, caller, models.ActionDeleted, "project", p.ID, p.Name, p.ID, "")
	return &Mutation[*models.Project]{Record: p, Activity: activity}, nil
}
