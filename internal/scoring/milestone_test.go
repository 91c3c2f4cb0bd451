package scoring

import (
	"testing"
	"time"

	"sitework/internal/domain/models"
)

func TestMilestoneHealth(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	due := func(days int) *time.Time {
		d := now.AddDate(0, 0, days)
		return &d
	}

	tests := []struct {
		name      string
		milestone models.Milestone
		want      int
	}{
		{
			name:      "completed always full score",
			milestone: models.Milestone{Status: models.MilestoneStatusCompleted, DueDate: due(-30)},
			want:      100,
		},
		{
			name:      "on track with no due date",
			milestone: models.Milestone{Status: models.MilestoneStatusInProgress, Progress: 10},
			want:      100,
		},
		{
			name:      "overdue and incomplete",
			milestone: models.Milestone{Status: models.MilestoneStatusInProgress, DueDate: due(-1), Progress: 80},
			want:      50,
		},
		{
			name:      "due within a week and under half done",
			milestone: models.Milestone{Status: models.MilestoneStatusInProgress, DueDate: due(5), Progress: 40},
			want:      70,
		},
		{
			name:      "due within two weeks and barely started",
			milestone: models.Milestone{Status: models.MilestoneStatusInProgress, DueDate: due(12), Progress: 10},
			want:      85,
		},
		{
			name: "minor budget overrun",
			milestone: models.Milestone{
				Status: models.MilestoneStatusInProgress,
				Budget: 1000, ActualCost: 1080,
			},
			want: 85,
		},
		{
			name: "major budget overrun",
			milestone: models.Milestone{
				Status: models.MilestoneStatusInProgress,
				Budget: 1000, ActualCost: 1200,
			},
			want: 70,
		},
		{
			name: "overdue and over budget clamps at floor",
			milestone: models.Milestone{
				Status:  models.MilestoneStatusDelayed,
				DueDate: due(-10), Progress: 20,
				Budget: 1000, ActualCost: 2500,
			},
			want: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MilestoneHealth(&tt.milestone, now)
			if got != tt.want {
				t.Errorf("MilestoneHealth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHasDependencyCycle(t *testing.T) {
	all := []models.Milestone{
		{ID: "m1", Dependencies: []string{}},
		{ID: "m2", Dependencies: []string{"m1"}},
		{ID: "m3", Dependencies: []string{"m2"}},
	}

	tests := []struct {
		name string
		id   string
		deps []string
		want bool
	}{
		{name: "no cycle linear chain", id: "m4", deps: []string{"m3"}, want: false},
		{name: "direct self dependency", id: "m1", deps: []string{"m1"}, want: true},
		{name: "two step cycle", id: "m1", deps: []string{"m2"}, want: true},
		{name: "transitive cycle", id: "m1", deps: []string{"m3"}, want: true},
		{name: "empty dependencies", id: "m2", deps: nil, want: false},
		{name: "unknown dependency id", id: "m2", deps: []string{"missing"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HasDependencyCycle(tt.id, tt.deps, all)
			if got != tt.want {
				t.Errorf("HasDependencyCycle(%q, %v) = %v, want %v", tt.id, tt.deps, got, tt.want)
			}
		})
	}
}

func TestSuccessProbability(t *testing.T) {
	w := DefaultSuccessWeights()

	tests := []struct {
		name                            string
		budget, schedule, quality, team float64
		want                            float64
	}{
		{name: "all perfect", budget: 100, schedule: 100, quality: 100, team: 100, want: 100},
		{name: "all zero", want: 0},
		{name: "weighted mix", budget: 100, schedule: 50, quality: 80, team: 60, want: 73},
		{name: "clamped above", budget: 150, schedule: 150, quality: 150, team: 150, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuccessProbability(tt.budget, tt.schedule, tt.quality, tt.team, w)
			if got != tt.want {
				t.Errorf("SuccessProbability() = %v, want %v", got, tt.want)
			}
		})
	}
}
