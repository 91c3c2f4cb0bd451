package scheduler

import (
	"log/slog"
	"testing"
	"time"

	"sitework/internal/domain/models"
)

func newTestScheduler() *Scheduler {
	return New(nil, nil, slog.New(slog.DiscardHandler))
}

func TestDue(t *testing.T) {
	s := newTestScheduler()
	now := time.Date(2025, 6, 2, 7, 0, 30, 0, time.UTC) // Monday 07:00:30
	earlier := now.Add(-10 * time.Minute)
	justRan := now.Add(-15 * time.Second)

	tests := []struct {
		name string
		rule models.AutomationRule
		want bool
	}{
		{
			name: "every minute fires",
			rule: models.AutomationRule{Schedule: "* * * * *"},
			want: true,
		},
		{
			name: "matching hour and minute",
			rule: models.AutomationRule{Schedule: "0 7 * * 1-5"},
			want: true,
		},
		{
			name: "wrong hour",
			rule: models.AutomationRule{Schedule: "0 8 * * *"},
			want: false,
		},
		{
			name: "already ran this minute",
			rule: models.AutomationRule{Schedule: "0 7 * * *", LastRunAt: &justRan},
			want: false,
		},
		{
			name: "last run before this minute",
			rule: models.AutomationRule{Schedule: "0 7 * * *", LastRunAt: &earlier},
			want: true,
		},
		{
			name: "invalid expression skipped",
			rule: models.AutomationRule{Schedule: "not a cron"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.due(&tt.rule, now); got != tt.want {
				t.Errorf("due(%q) = %v, want %v", tt.rule.Schedule, got, tt.want)
			}
		})
	}
}
