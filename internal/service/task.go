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

// TaskService implements task CRUD plus the assignment notification.
type TaskService struct {
	repo     repositories.TaskRepository
	recorder *Recorder
	logger   *slog.Logger
}

func NewTaskService(repo repositories.TaskRepository, recorder *Recorder, logger *slog.Logger) *TaskService {
	return &TaskService{repo: repo, recorder: recorder, logger: logger}
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	CompanyID   string     `json:"company_id"`
	ProjectID   string     `json:"project_id"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	AssignedTo  string     `json:"assigned_to"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"due_date"`
}

func (r CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, config.MaxNameLength)),
		validation.Field(&r.CompanyID, validation.Required.Error("company_id is required")),
		validation.Field(&r.ProjectID, validation.Required.Error("project_id is required")),
	)
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	Category    *string    `json:"category"`
	AssignedTo  *string    `json:"assigned_to"`
	Tags        *[]string  `json:"tags"`
	DueDate     *time.Time `json:"due_date"`
	Progress    *int       `json:"progress"`
}

// TaskSummary is the aggregate returned with list results.
type TaskSummary struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	ByPriority    map[string]int `json:"by_priority"`
	Overdue       int            `json:"overdue"`
	TopPerformers []NameCount    `json:"top_performers"`
}

func (s *TaskService) List(ctx context.Context, caller models.AuthContext, filter repositories.TaskFilter) ([]models.Task, *TaskSummary, error) {
	filter.CompanyID = scopeCompany(caller, filter.CompanyID)

	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	now := nowUTC()
	summary := &TaskSummary{
		Total:      len(tasks),
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
	}
	completedBy := map[string]int{}
	for _, t := range tasks {
		summary.ByStatus[t.Status]++
		summary.ByPriority[t.Priority]++
		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != models.TaskStatusCompleted {
			summary.Overdue++
		}
		if t.Status == models.TaskStatusCompleted && t.AssignedTo != "" {
			completedBy[t.AssignedTo]++
		}
	}
	summary.TopPerformers = topN(completedBy, config.TopRankingSize)

	return tasks, summary, nil
}

func (s *TaskService) Get(ctx context.Context, caller models.AuthContext, id string) (*models.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, t.CompanyID, "task"); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, caller models.AuthContext, req *CreateTaskRequest) (*Mutation[*models.Task], error) {
	if !caller.IsSuperAdmin() {
		req.CompanyID = caller.CompanyID
	}
	if err := req.Validate(); err != nil {
		return nil, domain.Validationf("%v", err)
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(status) {
		return nil, domain.Validationf("invalid status %q", status)
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, domain.Validationf("invalid priority %q", priority)
	}

	now := nowUTC()
	t := &models.Task{
		ID:          memory.NewID("task"),
		CompanyID:   req.CompanyID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		Category:    req.Category,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
		DueDate:     req.DueDate,
		CreatedBy:   caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("task created", "task_id", t.ID, "project_id", t.ProjectID)
	activity := s.recorder.Record(ctx, caller, models.ActionCreated, "task", t.ID, t.Title, t.ProjectID, "")

	var notification *models.Notification
	if t.AssignedTo != "" {
		notification = s.recorder.Notify(ctx, caller, "task_assigned",
			"Task assigned", t.Title, "task", t.ID, []string{t.AssignedTo})
	}

	return &Mutation[*models.Task]{Record: t, Activity: activity, Notification: notification}, nil
}

func (s *TaskService) Update(ctx context.Context, caller models.AuthContext, id string, req *UpdateTaskRequest) (*Mutation[*models.Task], error) {
	t, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	orig := *t

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		if !models.ValidTaskStatus(*req.Status) {
			return nil, domain.Validationf("invalid status %q", *req.Status)
		}
		t.Status = *req.Status
		if t.Status == models.TaskStatusCompleted {
			t.Progress = 100
		}
	}
	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			return nil, domain.Validationf("invalid priority %q", *req.Priority)
		}
		t.Priority = *req.Priority
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.AssignedTo != nil {
		t.AssignedTo = *req.AssignedTo
	}
	if req.Tags != nil {
		t.Tags = *req.Tags
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, domain.Validationf("progress must be between 0 and 100")
		}
		t.Progress = *req.Progress
	}

	t.ID = orig.ID
	t.CompanyID = orig.CompanyID
	t.CreatedBy = orig.CreatedBy
	t.CreatedAt = orig.CreatedAt
	t.UpdatedAt = nowUTC()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	activity := s.recorder.Record(ctx, caller, models.ActionUpdated, "task", t.ID, t.Title, t.ProjectID, "")
	var notification *models.Notification
	if req.AssignedTo != nil && *req.AssignedTo != orig.AssignedTo && *req.AssignedTo != "" {
		notification = s.recorder.Notify(ctx, caller, "task_assigned",
			"Task assigned", t.Title, "task", t.ID, []string{t.AssignedTo})
	}

	return &Mutation[*models.Task]{Record: t, Activity: activity, Notification: notification}, nil
}

func (s *TaskService) Delete(ctx context.Context, caller models.AuthContext, id string) (*Mutation[*models.Task], error) {
	t, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	activity := s.recorder.Record(ctx, caller, models.ActionDeleted, "task", t.ID, t.Title, t.ProjectID, "")
	return &Mutation[*models.Task]{Record: t, Activity: activity}, nil
}
