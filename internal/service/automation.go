package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"sitework/internal/config"
	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/events"
)

// AutomationService manages automation rules and executes them against
// outbound events. Schedule-triggered rules are run by the scheduler.
type AutomationService struct {
	repo     repositories.AutomationRepository
	recorder *Recorder
	logger   *slog.Logger
}

func NewAutomationService(repo repositories.AutomationRepository, recorder *Recorder, logger *slog.Logger) *AutomationService {
	return &AutomationService{repo: repo, recorder: recorder, logger: logger}
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CreateAutomationRequest is the POST /api/automations body.
type CreateAutomationRequest struct {
	Name          string          `json:"name"`
	CompanyID     string          `json:"company_id"`
	Description   string          `json:"description"`
	TriggerType   string          `json:"trigger_type"`
	TriggerConfig json.RawMessage `json:"trigger_config"`
	Schedule      string          `json:"schedule"`
	Actions       json.RawMessage `json:"actions"`
	Enabled       *bool           `json:"enabled"`
}

func (r CreateAutomationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, config.MaxNameLength)),
		validation.Field(&r.CompanyID, validation.Required.Error("company_id is required")),
		validation.Field(&r.TriggerType, validation.Required,
			validation.In(models.TriggerEvent, models.TriggerSchedule)),
	)
}

// UpdateAutomationRequest carries partial-update fields.
type UpdateAutomationRequest struct {
	Name          *string         `json:"name"`
	Description   *string         `json:"description"`
	TriggerType   *string         `json:"trigger_type"`
	TriggerConfig json.RawMessage `json:"trigger_config"`
	Schedule      *string         `json:"schedule"`
	Actions       json.RawMessage `json:"actions"`
	Enabled       *bool           `json:"enabled"`
}

func (s *AutomationService) List(ctx context.Context, caller models.AuthContext) ([]models.AutomationRule, error) {
	return s.repo.List(ctx, scopeCompany(caller, ""))
}

func (s *AutomationService) Get(ctx context.Context, caller models.AuthContext, id string) (*models.AutomationRule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, rule.CompanyID, "automation rule"); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *AutomationService) Create(ctx context.Context, caller models.AuthContext, req *CreateAutomationRequest) (*models.AutomationRule, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := checkAccess(caller, req.CompanyID, "automation rule"); err != nil {
		return nil, err
	}
	if req.TriggerType == models.TriggerSchedule {
		if req.Schedule == "" {
			return nil, domain.Validationf("schedule is required for schedule triggers")
		}
		if _, err := cronParser.Parse(req.Schedule); err != nil {
			return nil, domain.Validationf("invalid schedule %q: %v", req.Schedule, err)
		}
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	now := nowUTC()
	rule := &models.AutomationRule{
		ID:            "auto-" + uuid.NewString(),
		CompanyID:     req.CompanyID,
		Name:          req.Name,
		Description:   req.Description,
		TriggerType:   req.TriggerType,
		TriggerConfig: req.TriggerConfig,
		Schedule:      req.Schedule,
		Actions:       req.Actions,
		Enabled:       enabled,
		CreatedBy:     caller.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, caller, models.ActionCreated, "automation", rule.ID, rule.Name, "", "")
	return rule, nil
}

func (s *AutomationService) Update(ctx context.Context, caller models.AuthContext, id string, req *UpdateAutomationRequest) (*models.AutomationRule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, rule.CompanyID, "automation rule"); err != nil {
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.TriggerType != nil {
		if *req.TriggerType != models.TriggerEvent && *req.TriggerType != models.TriggerSchedule {
			return nil, domain.Validationf("invalid trigger_type %q", *req.TriggerType)
		}
		rule.TriggerType = *req.TriggerType
	}
	if req.TriggerConfig != nil {
		rule.TriggerConfig = req.TriggerConfig
	}
	if req.Schedule != nil {
		rule.Schedule = *req.Schedule
	}
	if req.Actions != nil {
		rule.Actions = req.Actions
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
	if rule.TriggerType == models.TriggerSchedule {
		if rule.Schedule == "" {
			return nil, domain.Validationf("schedule is required for schedule triggers")
		}
		if _, err := cronParser.Parse(rule.Schedule); err != nil {
			return nil, domain.Validationf("invalid schedule %q: %v", rule.Schedule, err)
		}
	}
	rule.UpdatedAt = nowUTC()

	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, caller, models.ActionUpdated, "automation", rule.ID, rule.Name, "", "")
	return rule, nil
}

func (s *AutomationService) Delete(ctx context.Context, caller models.AuthContext, id string) error {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkAccess(caller, rule.CompanyID, "automation rule"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, caller, models.ActionDeleted, "automation", rule.ID, rule.Name, "", "")
	return nil
}

// Test synthesizes a run without evaluating the trigger. The run is recorded
// against the rule's history so the caller can inspect it afterwards.
func (s *AutomationService) Test(ctx context.Context, caller models.AuthContext, id string) (*models.AutomationRun, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, rule.CompanyID, "automation rule"); err != nil {
		return nil, err
	}
	run := &models.AutomationRun{
		ID:        "run-" + uuid.NewString(),
		RuleID:    rule.ID,
		Status:    "success",
		Message:   fmt.Sprintf("test run of %q", rule.Name),
		Synthetic: true,
		CreatedAt: nowUTC(),
	}
	if err := s.repo.RecordRun(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Runs returns the most recent run history for a rule.
func (s *AutomationService) Runs(ctx context.Context, caller models.AuthContext, id string) ([]models.AutomationRun, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, rule.CompanyID, "automation rule"); err != nil {
		return nil, err
	}
	return s.repo.ListRuns(ctx, rule.ID, config.AutomationRunHistory)
}

// RunRule executes one rule outside any request. Used by the scheduler and
// the event subscription; errors are recorded in the run history, not
// returned to a caller.
func (s *AutomationService) RunRule(ctx context.Context, rule *models.AutomationRule, cause string) {
	run := &models.AutomationRun{
		ID:        "run-" + uuid.NewString(),
		RuleID:    rule.ID,
		Status:    "success",
		Message:   cause,
		CreatedAt: nowUTC(),
	}
	if err := s.repo.RecordRun(ctx, run); err != nil {
		s.logger.Error("failed to record automation run", "rule_id", rule.ID, "error", err)
		return
	}
	s.logger.Info("automation rule ran", "rule_id", rule.ID, "name", rule.Name, "cause", cause)
}

// HandleEvent is subscribed to the event dispatcher. It runs every enabled
// event-triggered rule whose configured event type matches.
func (s *AutomationService) HandleEvent(ctx context.Context, ev events.Event) {
	rules, err := s.repo.List(ctx, ev.CompanyID)
	if err != nil {
		s.logger.Error("failed to load automation rules", "error", err)
		return
	}
	for i := range rules {
		rule := &rules[i]
		if !rule.Enabled || rule.TriggerType != models.TriggerEvent {
			continue
		}
		if !matchesEventType(rule.TriggerConfig, ev.Type) {
			continue
		}
		s.RunRule(ctx, rule, "event "+ev.Type)
	}
}

// matchesEventType checks the rule's trigger config for an "event_type"
// value, with prefix wildcard support ("task.*"). Empty config matches all.
func matchesEventType(cfg json.RawMessage, eventType string) bool {
	if len(cfg) == 0 {
		return true
	}
	want := extractEventType(cfg)
	if want == "" {
		return true
	}
	if prefix, ok := strings.CutSuffix(want, "*"); ok {
		return strings.HasPrefix(eventType, prefix)
	}
	return want == eventType
}

func extractEventType(cfg json.RawMessage) string {
	var parsed struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(cfg, &parsed); err != nil {
		return ""
	}
	return parsed.EventType
}
