package scoring

import (
	"time"

	"sitework/internal/domain/models"
)

// Schedule and budget penalties applied by MilestoneHealth. The heuristic
// starts at 100 and subtracts per breached threshold, clamped to [0, 100].
const (
	penaltyOverdue       = 50
	penaltyBehindNearDue = 30
	penaltyBehindPace    = 15
	penaltyBudgetMajor   = 30
	penaltyBudgetMinor   = 15

	budgetVarianceMinor = 0.05
	budgetVarianceMajor = 0.10
)

// MilestoneHealth computes the 0-100 health score for a milestone at the
// given reference time. Completed milestones always score 100.
func MilestoneHealth(m *models.Milestone, now time.Time) int {
	if m.Status == models.MilestoneStatusCompleted {
		return 100
	}

	score := 100

	if m.DueDate != nil {
		daysLeft := m.DueDate.Sub(now).Hours() / 24
		switch {
		case daysLeft < 0 && m.Progress < 100:
			score -= penaltyOverdue
		case daysLeft <= 7 && m.Progress < 50:
			score -= penaltyBehindNearDue
		case daysLeft <= 14 && m.Progress < 25:
			score -= penaltyBehindPace
		}
	}

	if m.Budget > 0 {
		variance := (m.ActualCost - m.Budget) / m.Budget
		switch {
		case variance > budgetVarianceMajor:
			score -= penaltyBudgetMajor
		case variance > budgetVarianceMinor:
			score -= penaltyBudgetMinor
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// HasDependencyCycle reports whether setting deps as the dependency list of
// milestone id would make a cycle reachable from id. Performs a depth-first
// traversal with a visited set over the dependency graph described by all.
func HasDependencyCycle(id string, deps []string, all []models.Milestone) bool {
	graph := make(map[string][]string, len(all)+1)
	for _, m := range all {
		graph[m.ID] = m.Dependencies
	}
	graph[id] = deps

	visited := make(map[string]bool)
	var stack []string
	stack = append(stack, deps...)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == id {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		stack = append(stack, graph[cur]...)
	}
	return false
}
