package handler

import (
	"log/slog"
	"net/http"

	"sitework/internal/domain/repositories"
	"sitework/internal/httputil"
	"sitework/internal/service"
)

// PurchaseOrderHandler handles purchase order HTTP requests.
type PurchaseOrderHandler struct {
	orders *service.PurchaseOrderService
	logger *slog.Logger
}

func NewPurchaseOrderHandler(orders *service.PurchaseOrderService, logger *slog.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orders: orders, logger: logger}
}

// ListPurchaseOrders retrieves purchase orders with the vendor rollup.
// GET /api/purchase-orders
func (h *PurchaseOrderHandler) ListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
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

	orders, summary, err := h.orders.List(r.Context(), caller, filter)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, httputil.Envelope{"data": orders, "summary": summary})
}

// GetPurchaseOrder retrieves a purchase order by id.
// GET /api/purchase-orders/{id}
func (h *PurchaseOrderHandler) GetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	po, err := h.orders.Get(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, po)
}

// CreatePurchaseOrder creates a purchase order with a PO-{year}-{seq}
// number.
// POST /api/purchase-orders
func (h *PurchaseOrderHandler) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.CreatePurchaseOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.orders.Create(r.Context(), caller, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusCreated, mutationEnvelope(result))
}

// UpdatePurchaseOrder applies a partial update. Line items of an approved
// order cannot be changed.
// PUT/PATCH /api/purchase-orders/{id}
func (h *PurchaseOrderHandler) UpdatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.UpdatePurchaseOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.orders.Update(r.Context(), caller, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, mutationEnvelope(result))
}

// DeletePurchaseOrder deletes a purchase order.
// DELETE /api/purchase-orders/{id}
func (h *PurchaseOrderHandler) DeletePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	result, err := h.orders.Delete(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	env := mutationEnvelope(result)
	env["message"] = "Purchase order deleted"
	httputil.RespondEnvelope(w, http.StatusOK, env)
}
