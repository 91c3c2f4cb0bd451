package memory

import (
	"context"
	"time"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// AutomationStore implements repositories.AutomationRepository in memory.
// It backs deployments without a DATABASE_URL; rules do not survive a
// restart there.
type AutomationStore struct {
	rules *collection[models.AutomationRule]
	runs  *collection[models.AutomationRun]
}

func NewAutomationStore() *AutomationStore {
	return &AutomationStore{
		rules: newCollection(func(r *models.AutomationRule) string { return r.ID }),
		runs:  newCollection(func(r *models.AutomationRun) string { return r.ID }),
	}
}

var _ repositories.AutomationRepository = (*AutomationStore)(nil)

func (s *AutomationStore) List(_ context.Context, companyID string) ([]models.AutomationRule, error) {
	out := s.rules.List(func(r *models.AutomationRule) bool {
		return companyID == "" || r.CompanyID == companyID
	})
	sortNewestFirst(out, func(r *models.AutomationRule) time.Time { return r.CreatedAt })
	return out, nil
}

func (s *AutomationStore) ListScheduled(_ context.Context) ([]models.AutomationRule, error) {
	return s.rules.List(func(r *models.AutomationRule) bool {
		return r.Enabled && r.TriggerType == models.TriggerSchedule
	}), nil
}

func (s *AutomationStore) GetByID(_ context.Context, id string) (*models.AutomationRule, error) {
	rule, ok := s.rules.Get(id)
	if !ok {
		return nil, domain.NotFoundf("Automation rule")
	}
	return &rule, nil
}

func (s *AutomationStore) Create(_ context.Context, rule *models.AutomationRule) error {
	s.rules.Insert(*rule)
	return nil
}

func (s *AutomationStore) Update(_ context.Context, rule *models.AutomationRule) error {
	if !s.rules.Replace(*rule) {
		return domain.NotFoundf("Automation rule")
	}
	return nil
}

func (s *AutomationStore) Delete(_ context.Context, id string) error {
	if !s.rules.Remove(id) {
		return domain.NotFoundf("Automation rule")
	}
	return nil
}

func (s *AutomationStore) RecordRun(_ context.Context, run *models.AutomationRun) error {
	t := run.CreatedAt
	_, ok := s.rules.Mutate(run.RuleID, func(r *models.AutomationRule) {
		r.RunCount++
		r.LastRunAt = &t
	})
	if !ok {
		return domain.NotFoundf("Automation rule")
	}
	s.runs.Insert(*run)
	return nil
}

func (s *AutomationStore) ListRuns(_ context.Context, ruleID string, limit int) ([]models.AutomationRun, error) {
	out := s.runs.List(func(r *models.AutomationRun) bool { return r.RuleID == ruleID })
	sortNewestFirst(out, func(r *models.AutomationRun) time.Time { return r.CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
