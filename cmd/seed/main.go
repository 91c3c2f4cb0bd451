package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"sitework/internal/config"
	"sitework/internal/domain/models"
	"sitework/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop automation and marketplace tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed rules or modules")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: never run destructive operations against production tables
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required for seeding")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping automation and marketplace tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	automationRepo := postgres.NewAutomationRepository(repoConfig)
	marketplaceRepo := postgres.NewMarketplaceRepository(repoConfig)

	log.Println("Seeding automation rules...")
	for _, rule := range seedAutomationRules() {
		if err := automationRepo.Create(ctx, rule); err != nil {
			log.Printf("Failed to create rule %q: %v", rule.Name, err)
			continue
		}
		log.Printf("Created automation rule: %s (%s)", rule.Name, rule.ID)
	}

	log.Println("Seeding marketplace modules...")
	for _, module := range seedMarketplaceModules() {
		if err := marketplaceRepo.Create(ctx, module); err != nil {
			log.Printf("Failed to create module %q: %v", module.Name, err)
			continue
		}
		log.Printf("Created marketplace module: %s (%s)", module.Name, module.Slug)
	}

	log.Println("Seeding complete")
}

func seedAutomationRules() []*models.AutomationRule {
	now := time.Now().UTC()
	return []*models.AutomationRule{
		{
			ID:          "auto-overdue-digest",
			CompanyID:   "company-1",
			Name:        "Daily overdue task digest",
			Description: "Collects overdue tasks every morning and notifies supervisors",
			TriggerType: "schedule",
			Schedule:    "0 7 * * 1-5",
			Actions:     json.RawMessage(`[{"type":"notify","target":"supervisors","template":"overdue_digest"}]`),
			Enabled:     true,
			CreatedBy:   "user-1",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:            "auto-task-completed",
			CompanyID:     "company-1",
			Name:          "Log completed tasks",
			Description:   "Records an activity entry whenever a task is completed",
			TriggerType:   "event",
			TriggerConfig: json.RawMessage(`{"event_type":"task.completed"}`),
			Actions:       json.RawMessage(`[{"type":"log_activity","template":"task_completed"}]`),
			Enabled:       true,
			CreatedBy:     "user-1",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:          "auto-invoice-overdue",
			CompanyID:   "company-1",
			Name:        "Flag overdue invoices",
			Description: "Checks invoice due dates nightly and flags unpaid balances",
			TriggerType: "schedule",
			Schedule:    "0 2 * * *",
			Actions:     json.RawMessage(`[{"type":"notify","target":"company_admins","template":"invoice_overdue"}]`),
			Enabled:     false,
			CreatedBy:   "user-2",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func seedMarketplaceModules() []*models.MarketplaceModule {
	now := time.Now().UTC()
	return []*models.MarketplaceModule{
		{
			ID:          "mod-safety-checklists",
			Name:        "Safety Checklists",
			Slug:        "safety-checklists",
			Description: "OSHA-aligned daily safety checklists with sign-off tracking",
			Category:    "compliance",
			Version:     "1.2.0",
			Author:      "SiteWork Labs",
			Price:       0,
			Installs:    412,
			Published:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "mod-equipment-tracker",
			Name:        "Equipment Tracker",
			Slug:        "equipment-tracker",
			Description: "Track heavy equipment assignments, hours, and maintenance windows",
			Category:    "operations",
			Version:     "2.0.1",
			Author:      "SiteWork Labs",
			Price:       49.99,
			Installs:    187,
			Published:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "mod-weather-delays",
			Name:        "Weather Delay Logging",
			Slug:        "weather-delays",
			Description: "Log weather events against project schedules for claims support",
			Category:    "scheduling",
			Version:     "0.9.3",
			Author:      "Fieldstone Software",
			Price:       19.99,
			Installs:    95,
			Published:   false,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// dropAllTables drops tables in reverse order to respect foreign keys.
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.AutomationRuns,
		tables.AutomationRules,
		tables.MarketplaceModules,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}

	return nil
}
