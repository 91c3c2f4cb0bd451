package service

import (
	"log/slog"

	"sitework/internal/domain/models"
	"sitework/internal/events"
	"sitework/internal/repository/memory"
)

// testEnv wires empty in-memory stores behind a recorder for service tests.
type testEnv struct {
	stores   *memory.Stores
	recorder *Recorder
	logger   *slog.Logger
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.DiscardHandler)
	dispatcher := events.NewDispatcher(logger)
	stores := memory.NewStores()
	return &testEnv{
		stores:   stores,
		recorder: NewRecorder(stores.Activities, dispatcher, logger),
		logger:   logger,
	}
}

func adminCaller() models.AuthContext {
	return models.AuthContext{
		UserID:    "user-1",
		Email:     "admin@acme.test",
		Role:      models.RoleCompanyAdmin,
		CompanyID: "c1",
	}
}

func strPtr(s string) *string { return &s }
