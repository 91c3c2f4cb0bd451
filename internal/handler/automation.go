package handler

import (
	"log/slog"
	"net/http"

	"sitework/internal/httputil"
	"sitework/internal/service"
)

// AutomationHandler handles automation rule HTTP requests.
type AutomationHandler struct {
	automations *service.AutomationService
	logger      *slog.Logger
}

func NewAutomationHandler(automations *service.AutomationService, logger *slog.Logger) *AutomationHandler {
	return &AutomationHandler{automations: automations, logger: logger}
}

// ListAutomations retrieves the caller's automation rules.
// GET /api/automations
func (h *AutomationHandler) ListAutomations(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	rules, err := h.automations.List(r.Context(), caller)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, rules)
}

// GetAutomation retrieves a rule by id.
// GET /api/automations/{id}
func (h *AutomationHandler) GetAutomation(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	rule, err := h.automations.Get(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, rule)
}

// CreateAutomation creates a rule. Schedule triggers must carry a valid
// cron expression.
// POST /api/automations
func (h *AutomationHandler) CreateAutomation(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.CreateAutomationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rule, err := h.automations.Create(r.Context(), caller, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusCreated, rule)
}

// UpdateAutomation applies a partial update.
// PUT/PATCH /api/automations/{id}
func (h *AutomationHandler) UpdateAutomation(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.UpdateAutomationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rule, err := h.automations.Update(r.Context(), caller, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, rule)
}

// DeleteAutomation deletes a rule with its run history.
// DELETE /api/automations/{id}
func (h *AutomationHandler) DeleteAutomation(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	if err := h.automations.Delete(r.Context(), caller, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, httputil.Envelope{"message": "Automation rule deleted"})
}

// TestAutomation synthesizes a run without evaluating the trigger.
// POST /api/automations/{id}/test
func (h *AutomationHandler) TestAutomation(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	run, err := h.automations.Test(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, run)
}

// ListAutomationRuns retrieves recent run history for a rule.
// GET /api/automations/{id}/runs
func (h *AutomationHandler) ListAutomationRuns(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	runs, err := h.automations.Runs(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, runs)
}
