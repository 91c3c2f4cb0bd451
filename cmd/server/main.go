package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"sitework/internal/auth"
	"sitework/internal/config"
	"sitework/internal/domain/repositories"
	"sitework/internal/events"
	"sitework/internal/handler"
	"sitework/internal/insights"
	"sitework/internal/middleware"
	"sitework/internal/repository/memory"
	"sitework/internal/repository/postgres"
	"sitework/internal/scheduler"
	"sitework/internal/service"
)

const version = "1.0.0"

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	jwtVerifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}

	// Resource stores. In-memory collections carry the project data; the
	// seeded fixtures make the API usable out of the box.
	stores := memory.NewSeededStores()

	// Automations and the marketplace catalog persist in Postgres when a
	// DATABASE_URL is configured, otherwise they fall back to memory.
	ctx := context.Background()
	var automationRepo repositories.AutomationRepository
	var marketplaceRepo repositories.MarketplaceRepository
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		automationRepo = postgres.NewAutomationRepository(repoConfig)
		marketplaceRepo = postgres.NewMarketplaceRepository(repoConfig)
		logger.Info("database connected", "max_conns", 25, "min_conns", 5)
	} else {
		automationRepo = memory.NewAutomationStore()
		marketplaceRepo = memory.NewMarketplaceStore()
		logger.Warn("DATABASE_URL not set, automations and marketplace use in-memory storage")
	}

	registry, err := insights.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load insight rules: %v", err)
	}

	// Outbound events: every mutation publishes to the dispatcher, which
	// feeds event-triggered automation rules.
	dispatcher := events.NewDispatcher(logger)
	recorder := service.NewRecorder(stores.Activities, dispatcher, logger)

	projectService := service.NewProjectService(stores.Projects, recorder, logger)
	taskService := service.NewTaskService(stores.Tasks, recorder, logger)
	documentService := service.NewDocumentService(stores.Documents, recorder, logger)
	invoiceService := service.NewInvoiceService(stores.Invoices, recorder, logger)
	poService := service.NewPurchaseOrderService(stores.PurchaseOrders, recorder, logger)
	milestoneService := service.NewMilestoneService(stores.Milestones, recorder, logger)
	subcontractorService := service.NewSubcontractorService(stores.Subcontractors, recorder, logger)
	activityService := service.NewActivityService(stores.Activities, logger)
	batchService := service.NewBatchService(documentService, taskService, logger)
	insightService := service.NewInsightService(registry, stores.Projects, stores.Tasks, stores.Invoices, stores.Milestones, logger)
	analyticsService := service.NewAnalyticsService(stores.Projects, stores.Tasks, stores.Invoices, stores.Milestones, logger)
	importService := service.NewImportService(taskService, projectService, logger)
	reportService := service.NewReportService(stores.Projects, stores.Tasks, stores.Invoices, stores.Milestones, logger)
	automationService := service.NewAutomationService(automationRepo, recorder, logger)
	marketplaceService := service.NewMarketplaceService(marketplaceRepo, logger)

	dispatcher.Subscribe(automationService.HandleEvent)

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched = scheduler.New(automationRepo, automationService, logger)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	healthHandler := handler.NewHealthHandler(version)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	documentHandler := handler.NewDocumentHandler(documentService, logger)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, logger)
	poHandler := handler.NewPurchaseOrderHandler(poService, logger)
	milestoneHandler := handler.NewMilestoneHandler(milestoneService, logger)
	subcontractorHandler := handler.NewSubcontractorHandler(subcontractorService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)
	batchHandler := handler.NewBatchHandler(batchService, logger)
	insightHandler := handler.NewInsightHandler(insightService, analyticsService, logger)
	importExportHandler := handler.NewImportExportHandler(importService, reportService, logger)
	automationHandler := handler.NewAutomationHandler(automationService, logger)
	marketplaceHandler := handler.NewMarketplaceHandler(marketplaceService, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ method patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.HealthCheck)

	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /api/projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("PUT /api/projects/{id}", projectHandler.UpdateProject)
	mux.HandleFunc("PATCH /api/projects/{id}", projectHandler.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.DeleteProject)

	mux.HandleFunc("GET /api/tasks", taskHandler.ListTasks)
	mux.HandleFunc("POST /api/tasks", taskHandler.CreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", taskHandler.GetTask)
	mux.HandleFunc("PUT /api/tasks/{id}", taskHandler.UpdateTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", taskHandler.UpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", taskHandler.DeleteTask)

	mux.HandleFunc("GET /api/documents", documentHandler.ListDocuments)
	mux.HandleFunc("POST /api/documents", documentHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", documentHandler.GetDocument)
	mux.HandleFunc("PUT /api/documents/{id}", documentHandler.UpdateDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", documentHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", documentHandler.DeleteDocument)

	mux.HandleFunc("GET /api/invoices", invoiceHandler.ListInvoices)
	mux.HandleFunc("POST /api/invoices", invoiceHandler.CreateInvoice)
	mux.HandleFunc("GET /api/invoices/{id}", invoiceHandler.GetInvoice)
	mux.HandleFunc("PUT /api/invoices/{id}", invoiceHandler.UpdateInvoice)
	mux.HandleFunc("PATCH /api/invoices/{id}", invoiceHandler.UpdateInvoice)
	mux.HandleFunc("DELETE /api/invoices/{id}", invoiceHandler.DeleteInvoice)

	mux.HandleFunc("GET /api/purchase-orders", poHandler.ListPurchaseOrders)
	mux.HandleFunc("POST /api/purchase-orders", poHandler.CreatePurchaseOrder)
	mux.HandleFunc("GET /api/purchase-orders/{id}", poHandler.GetPurchaseOrder)
	mux.HandleFunc("PUT /api/purchase-orders/{id}", poHandler.UpdatePurchaseOrder)
	mux.HandleFunc("PATCH /api/purchase-orders/{id}", poHandler.UpdatePurchaseOrder)
	mux.HandleFunc("DELETE /api/purchase-orders/{id}", poHandler.DeletePurchaseOrder)

	mux.HandleFunc("GET /api/milestones", milestoneHandler.ListMilestones)
	mux.HandleFunc("POST /api/milestones", milestoneHandler.CreateMilestone)
	mux.HandleFunc("GET /api/milestones/{id}", milestoneHandler.GetMilestone)
	mux.HandleFunc("PUT /api/milestones/{id}", milestoneHandler.UpdateMilestone)
	mux.HandleFunc("PATCH /api/milestones/{id}", milestoneHandler.UpdateMilestone)
	mux.HandleFunc("DELETE /api/milestones/{id}", milestoneHandler.DeleteMilestone)

	mux.HandleFunc("GET /api/subcontractors", subcontractorHandler.ListSubcontractors)
	mux.HandleFunc("POST /api/subcontractors", subcontractorHandler.CreateSubcontractor)
	mux.HandleFunc("GET /api/subcontractors/{id}", subcontractorHandler.GetSubcontractor)
	mux.HandleFunc("PATCH /api/subcontractors/{id}", subcontractorHandler.UpdateSubcontractor)

	mux.HandleFunc("GET /api/activity", activityHandler.ListActivity)
	mux.HandleFunc("POST /api/activity", activityHandler.CreateActivity)

	mux.HandleFunc("POST /api/batch/documents", batchHandler.BatchDocuments)
	mux.HandleFunc("POST /api/batch/tasks", batchHandler.BatchTasks)

	mux.HandleFunc("GET /api/ai/insights", insightHandler.GetInsights)
	mux.HandleFunc("GET /api/analytics/performance", insightHandler.GetPerformance)

	mux.HandleFunc("POST /api/import/data", importExportHandler.ImportData)
	mux.HandleFunc("GET /api/export/reports", importExportHandler.ExportReport)

	mux.HandleFunc("GET /api/automations", automationHandler.ListAutomations)
	mux.HandleFunc("POST /api/automations", automationHandler.CreateAutomation)
	mux.HandleFunc("GET /api/automations/{id}", automationHandler.GetAutomation)
	mux.HandleFunc("PUT /api/automations/{id}", automationHandler.UpdateAutomation)
	mux.HandleFunc("PATCH /api/automations/{id}", automationHandler.UpdateAutomation)
	mux.HandleFunc("DELETE /api/automations/{id}", automationHandler.DeleteAutomation)
	mux.HandleFunc("POST /api/automations/{id}/test", automationHandler.TestAutomation)
	mux.HandleFunc("GET /api/automations/{id}/runs", automationHandler.ListAutomationRuns)

	mux.HandleFunc("GET /api/marketplace/modules", marketplaceHandler.ListModules)
	mux.HandleFunc("POST /api/marketplace/modules", marketplaceHandler.CreateModule)
	mux.HandleFunc("GET /api/marketplace/modules/{id}", marketplaceHandler.GetModule)
	mux.HandleFunc("PUT /api/marketplace/modules/{id}", marketplaceHandler.UpdateModule)
	mux.HandleFunc("PATCH /api/marketplace/modules/{id}", marketplaceHandler.UpdateModule)
	mux.HandleFunc("DELETE /api/marketplace/modules/{id}", marketplaceHandler.DeleteModule)
	mux.HandleFunc("POST /api/marketplace/modules/{id}/install", marketplaceHandler.InstallModule)

	// Middleware chain, applied in reverse order: CORS → Recovery → Auth →
	// routes.
	var root http.Handler = mux
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
