package handler

import (
	"log/slog"
	"net/http"

	"sitework/internal/domain/repositories"
	"sitework/internal/httputil"
	"sitework/internal/service"
)

// ActivityHandler handles audit-log HTTP requests.
type ActivityHandler struct {
	activities *service.ActivityService
	logger     *slog.Logger
}

func NewActivityHandler(activities *service.ActivityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{activities: activities, logger: logger}
}

// ListActivity retrieves audit entries with action/entity breakdowns and
// the per-day timeline.
// GET /api/activity
func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
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
	filter := repositories.ActivityFilter{
		CompanyID:  q.Get("company_id"),
		ProjectID:  q.Get("project_id"),
		UserID:     q.Get("user_id"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		Action:     q.Get("action"),
		Search:     q.Get("search"),
		From:       from,
		To:         to,
	}

	entries, summary, err := h.activities.List(r.Context(), caller, filter)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, httputil.Envelope{"data": entries, "summary": summary})
}

// CreateActivity records a manual audit entry.
// POST /api/activity
func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.CreateActivityRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.activities.Create(r.Context(), caller, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusCreated, entry)
}
