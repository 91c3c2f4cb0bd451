package handler

import (
	"log/slog"
	"net/http"

	"sitework/internal/httputil"
	"sitework/internal/service"
)

// BatchHandler handles bulk operations on documents and tasks.
type BatchHandler struct {
	batch  *service.BatchService
	logger *slog.Logger
}

func NewBatchHandler(batch *service.BatchService, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{batch: batch, logger: logger}
}

// BatchDocuments applies one verb to documents selected by id list or
// filter.
// POST /api/batch/documents
func (h *BatchHandler) BatchDocuments(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.BatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.batch.Documents(r.Context(), caller, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, result)
}

// BatchTasks applies one verb to tasks selected by id list or filter.
// POST /api/batch/tasks
func (h *BatchHandler) BatchTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.BatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.batch.Tasks(r.Context(), caller, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, result)
}
