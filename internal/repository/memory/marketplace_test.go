package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"sitework/internal/domain/models"
)

func TestIncrementInstallsConcurrent(t *testing.T) {
	store := NewMarketplaceStore()
	ctx := context.Background()

	module := &models.MarketplaceModule{
		ID:        "mod-1",
		Name:      "Safety Checklists",
		Slug:      "safety-checklists",
		Published: true,
	}
	if err := store.Create(ctx, module); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	const goroutines = 8
	const perGoroutine = 500

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				if _, err := store.IncrementInstalls(ctx, "mod-1"); err != nil {
					t.Errorf("IncrementInstalls() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, err := store.GetByID(ctx, "mod-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if want := goroutines * perGoroutine; got.Installs != want {
		t.Errorf("Installs = %d, want %d", got.Installs, want)
	}
}

func TestRecordRunConcurrent(t *testing.T) {
	store := NewAutomationStore()
	ctx := context.Background()

	rule := &models.AutomationRule{
		ID:          "rule-1",
		CompanyID:   "c1",
		Name:        "Overdue digest",
		TriggerType: models.TriggerSchedule,
		Enabled:     true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.Create(ctx, rule); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	const goroutines = 8
	const perGoroutine = 50

	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perGoroutine {
				run := &models.AutomationRun{
					ID:        fmt.Sprintf("run-%d-%d", g, i),
					RuleID:    "rule-1",
					Status:    "success",
					CreatedAt: time.Now().UTC(),
				}
				if err := store.RecordRun(ctx, run); err != nil {
					t.Errorf("RecordRun() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, err := store.GetByID(ctx, "rule-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if want := goroutines * perGoroutine; got.RunCount != want {
		t.Errorf("RunCount = %d, want %d", got.RunCount, want)
	}
	if got.LastRunAt == nil {
		t.Error("LastRunAt = nil after runs")
	}

	runs, err := store.ListRuns(ctx, "rule-1", 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if want := goroutines * perGoroutine; len(runs) != want {
		t.Errorf("len(runs) = %d, want %d", len(runs), want)
	}
}
