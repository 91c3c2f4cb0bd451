package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"sitework/internal/domain/repositories"
	"sitework/internal/httputil"
	"sitework/internal/service"
)

// SubcontractorHandler handles subcontractor HTTP requests.
type SubcontractorHandler struct {
	subcontractors *service.SubcontractorService
	logger         *slog.Logger
}

func NewSubcontractorHandler(subcontractors *service.SubcontractorService, logger *slog.Logger) *SubcontractorHandler {
	return &SubcontractorHandler{subcontractors: subcontractors, logger: logger}
}

// ListSubcontractors retrieves trade partners with performance rollups.
// GET /api/subcontractors
func (h *SubcontractorHandler) ListSubcontractors(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := repositories.SubcontractorFilter{
		CompanyID: q.Get("company_id"),
		Trade:     q.Get("trade"),
		Status:    q.Get("status"),
		Search:    q.Get("search"),
	}
	if raw := q.Get("min_rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid min_rating")
			return
		}
		filter.MinRating = rating
	}
	expiry, err := httputil.QueryTime(q, "insurance_before")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.InsuranceBefore = expiry

	subs, summary, err := h.subcontractors.List(r.Context(), caller, filter)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, httputil.Envelope{"data": subs, "summary": summary})
}

// GetSubcontractor retrieves a subcontractor by id.
// GET /api/subcontractors/{id}
func (h *SubcontractorHandler) GetSubcontractor(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	sc, err := h.subcontractors.Get(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, sc)
}

// CreateSubcontractor registers a trade partner.
// POST /api/subcontractors
func (h *SubcontractorHandler) CreateSubcontractor(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.CreateSubcontractorRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.subcontractors.Create(r.Context(), caller, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusCreated, mutationEnvelope(result))
}

// UpdateSubcontractor applies a partial update, including performance
// counters.
// PATCH /api/subcontractors/{id}
func (h *SubcontractorHandler) UpdateSubcontractor(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.UpdateSubcontractorRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.subcontractors.Update(r.Context(), caller, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, mutationEnvelope(result))
}
