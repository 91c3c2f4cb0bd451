// Package scheduler runs enabled schedule-triggered automation rules on
// their cron expressions.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/service"
)

// Scheduler polls the rule set once a minute and fires every rule whose
// cron expression matches the current minute. Reloading the rule set each
// tick keeps the scheduler consistent with rule edits without a registration
// protocol.
type Scheduler struct {
	repo       repositories.AutomationRepository
	automation *service.AutomationService
	logger     *slog.Logger
	cron       *cron.Cron
	parser     cron.Parser

	mu      sync.Mutex
	running bool
}

func New(repo repositories.AutomationRepository, automation *service.AutomationService, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		repo:       repo,
		automation: automation,
		logger:     logger,
		cron:       cron.New(),
		parser:     cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}
}

// Start begins the minute tick. Safe to call once; Stop shuts it down.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	_, err := s.cron.AddFunc("* * * * *", func() { s.tick(ctx) })
	if err != nil {
		return err
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("automation scheduler started")
	return nil
}

// Stop halts the tick and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("automation scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context) {
	rules, err := s.repo.ListScheduled(ctx)
	if err != nil {
		s.logger.Error("failed to load scheduled rules", "error", err)
		return
	}
	now := time.Now().UTC()
	for i := range rules {
		rule := &rules[i]
		if !s.due(rule, now) {
			continue
		}
		s.automation.RunRule(ctx, rule, "schedule "+rule.Schedule)
	}
}

// due reports whether the rule's cron expression fires in the current
// minute. The previous fire time is derived from the rule's last run so a
// missed tick does not double-fire.
func (s *Scheduler) due(rule *models.AutomationRule, now time.Time) bool {
	sched, err := s.parser.Parse(rule.Schedule)
	if err != nil {
		s.logger.Warn("skipping rule with invalid schedule",
			"rule_id", rule.ID, "schedule", rule.Schedule, "error", err)
		return false
	}
	last := now.Add(-time.Minute)
	if rule.LastRunAt != nil && rule.LastRunAt.After(last) {
		last = *rule.LastRunAt
	}
	next := sched.Next(last)
	return !next.After(now)
}
