package handler

import (
	"log/slog"
	"net/http"

	"sitework/internal/httputil"
	"sitework/internal/service"
)

// MarketplaceHandler handles module catalog HTTP requests.
type MarketplaceHandler struct {
	marketplace *service.MarketplaceService
	logger      *slog.Logger
}

func NewMarketplaceHandler(marketplace *service.MarketplaceService, logger *slog.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{marketplace: marketplace, logger: logger}
}

// ListModules retrieves catalog entries, most installed first.
// GET /api/marketplace/modules
func (h *MarketplaceHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	modules, err := h.marketplace.List(r.Context(), caller, r.URL.Query().Get("category"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, modules)
}

// GetModule retrieves a module by id.
// GET /api/marketplace/modules/{id}
func (h *MarketplaceHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	mod, err := h.marketplace.Get(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, mod)
}

// CreateModule publishes a catalog entry. Super admin only.
// POST /api/marketplace/modules
func (h *MarketplaceHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.CreateModuleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mod, err := h.marketplace.Create(r.Context(), caller, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusCreated, mod)
}

// UpdateModule applies a partial update. Super admin only.
// PUT/PATCH /api/marketplace/modules/{id}
func (h *MarketplaceHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.UpdateModuleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mod, err := h.marketplace.Update(r.Context(), caller, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, mod)
}

// DeleteModule removes a module from the catalog. Super admin only.
// DELETE /api/marketplace/modules/{id}
func (h *MarketplaceHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	if err := h.marketplace.Delete(r.Context(), caller, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, httputil.Envelope{"message": "Module deleted"})
}

// InstallModule bumps the install counter for a published module.
// POST /api/marketplace/modules/{id}/install
func (h *MarketplaceHandler) InstallModule(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	mod, err := h.marketplace.Install(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, mod)
}
