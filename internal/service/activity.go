package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitework/internal/config"
	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"

	"github.com/google/uuid"
)

// ActivityService exposes the audit log: filtered listing with the
// action/entity breakdown, per-day timeline buckets and the most-active-user
// ranking.
type ActivityService struct {
	repo   repositories.ActivityRepository
	logger *slog.Logger
}

func NewActivityService(repo repositories.ActivityRepository, logger *slog.Logger) *ActivityService {
	return &ActivityService{repo: repo, logger: logger}
}

type CreateActivityRequest struct {
	ProjectID  string `json:"project_id"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
}

func (r CreateActivityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Action, validation.Required.Error("action is required")),
		validation.Field(&r.EntityType, validation.Required.Error("entity_type is required")),
		validation.Field(&r.EntityID, validation.Required.Error("entity_id is required")),
	)
}

// TimelineBucket counts activities per calendar day.
type TimelineBucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ActivitySummary is the derived aggregate for activity listings.
type ActivitySummary struct {
	Total       int              `json:"total"`
	ByAction    map[string]int   `json:"by_action"`
	ByEntity    map[string]int   `json:"by_entity"`
	Timeline    []TimelineBucket `json:"timeline"`
	MostActive  []NameCount      `json:"most_active_users"`
}

func (s *ActivityService) List(ctx context.Context, caller models.AuthContext, filter repositories.ActivityFilter) ([]models.Activity, *ActivitySummary, error) {
	filter.CompanyID = scopeCompany(caller, filter.CompanyID)

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	summary := &ActivitySummary{
		Total:    len(entries),
		ByAction: map[string]int{},
		ByEntity: map[string]int{},
	}
	users := map[string]int{}
	days := map[string]int{}
	for _, a := range entries {
		summary.ByAction[a.Action]++
		summary.ByEntity[a.EntityType]++
		users[a.UserID]++
		days[a.CreatedAt.Format("2006-01-02")]++
	}
	summary.MostActive = topN(users, config.TopRankingSize)

	// Timeline buckets come out oldest-first so charts read left to right.
	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		summary.Timeline = append(summary.Timeline, TimelineBucket{Date: d, Count: days[d]})
	}

	return entries, summary, nil
}

// Create appends a manual audit-log entry on behalf of the caller.
func (s *ActivityService) Create(ctx context.Context, caller models.AuthContext, req *CreateActivityRequest) (*models.Activity, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.Validationf("%v", err)
	}

	a := &models.Activity{
		ID:         "act-" + uuid.NewString(),
		CompanyID:  caller.CompanyID,
		ProjectID:  req.ProjectID,
		UserID:     caller.UserID,
		UserEmail:  caller.Email,
		Action:     req.Action,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		EntityName: req.EntityName,
		Details:    req.Details,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
