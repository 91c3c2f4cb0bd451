package handler

import (
	"log/slog"
	"net/http"

	"sitework/internal/domain/repositories"
	"sitework/internal/httputil"
	"sitework/internal/service"
)

// MilestoneHandler handles milestone HTTP requests.
type MilestoneHandler struct {
	milestones *service.MilestoneService
	logger     *slog.Logger
}

func NewMilestoneHandler(milestones *service.MilestoneService, logger *slog.Logger) *MilestoneHandler {
	return &MilestoneHandler{milestones: milestones, logger: logger}
}

// ListMilestones retrieves milestones with fresh health scores and the
// status rollup.
// GET /api/milestones
func (h *MilestoneHandler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	from, err := httputil.QueryTime(q, "from")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := httputil.QueryTime(q, "to")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := repositories.ListFilter{
		CompanyID: q.Get("company_id"),
		ProjectID: q.Get("project_id"),
		Status:    q.Get("status"),
		Search:    q.Get("search"),
		From:      from,
		To:        to,
	}

	milestones, summary, err := h.milestones.List(r.Context(), caller, filter)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, httputil.Envelope{"data": milestones, "summary": summary})
}

// GetMilestone retrieves a milestone by id.
// GET /api/milestones/{id}
func (h *MilestoneHandler) GetMilestone(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	m, err := h.milestones.Get(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, m)
}

// CreateMilestone creates a milestone. Dependencies are checked for
// existence and cycles.
// POST /api/milestones
func (h *MilestoneHandler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.CreateMilestoneRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.milestones.Create(r.Context(), caller, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusCreated, mutationEnvelope(result))
}

// UpdateMilestone applies a partial update.
// PUT/PATCH /api/milestones/{id}
func (h *MilestoneHandler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.UpdateMilestoneRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.milestones.Update(r.Context(), caller, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, mutationEnvelope(result))
}

// DeleteMilestone deletes a milestone unless it is completed or another
// milestone depends on it.
// DELETE /api/milestones/{id}
func (h *MilestoneHandler) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	result, err := h.milestones.Delete(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	env := mutationEnvelope(result)
	env["message"] = "Milestone deleted"
	httputil.RespondEnvelope(w, http.StatusOK, env)
}
