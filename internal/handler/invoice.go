package handler

import (
	"log/slog"
	"net/http"

	"sitework/internal/domain/repositories"
	"sitework/internal/httputil"
	"sitework/internal/service"
)

// InvoiceHandler handles invoice HTTP requests.
type InvoiceHandler struct {
	invoices *service.InvoiceService
	logger   *slog.Logger
}

func NewInvoiceHandler(invoices *service.InvoiceService, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, logger: logger}
}

// ListInvoices retrieves invoices with the financial rollup.
// GET /api/invoices
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
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

	invoices, summary, err := h.invoices.List(r.Context(), caller, filter)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, httputil.Envelope{"data": invoices, "summary": summary})
}

// GetInvoice retrieves an invoice by id.
// GET /api/invoices/{id}
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	inv, err := h.invoices.Get(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, inv)
}

// CreateInvoice creates an invoice; totals are derived from the line items.
// POST /api/invoices
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.CreateInvoiceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.invoices.Create(r.Context(), caller, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusCreated, mutationEnvelope(result))
}

// UpdateInvoice applies a partial update and recomputes totals. Payment can
// drive the status to partial or paid.
// PUT/PATCH /api/invoices/{id}
func (h *InvoiceHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.UpdateInvoiceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.invoices.Update(r.Context(), caller, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, mutationEnvelope(result))
}

// DeleteInvoice deletes an invoice unless it has been paid.
// DELETE /api/invoices/{id}
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	result, err := h.invoices.Delete(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	env := mutationEnvelope(result)
	env["message"] = "Invoice deleted"
	httputil.RespondEnvelope(w, http.StatusOK, env)
}
