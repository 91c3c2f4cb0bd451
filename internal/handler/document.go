package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"sitework/internal/domain/repositories"
	"sitework/internal/httputil"
	"sitework/internal/service"
)

// DocumentHandler handles document HTTP requests.
type DocumentHandler struct {
	documents *service.DocumentService
	logger    *slog.Logger
}

func NewDocumentHandler(documents *service.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{documents: documents, logger: logger}
}

// ListDocuments retrieves documents with the summary rollup. Private
// documents belonging to other users are filtered out by the service.
// GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
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
		Category:  q.Get("category"),
		Search:    q.Get("search"),
		From:      from,
		To:        to,
	}
	if tags := q.Get("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	documents, summary, err := h.documents.List(r.Context(), caller, filter)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, httputil.Envelope{"data": documents, "summary": summary})
}

// GetDocument retrieves a document by id.
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	doc, err := h.documents.Get(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, doc)
}

// CreateDocument creates a document at version 1.
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.CreateDocumentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.documents.Create(r.Context(), caller, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusCreated, mutationEnvelope(result))
}

// UpdateDocument applies a partial update. A file_path change bumps the
// version and resets the approval workflow.
// PUT/PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.UpdateDocumentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.documents.Update(r.Context(), caller, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondEnvelope(w, http.StatusOK, mutationEnvelope(result))
}

// DeleteDocument deletes a document unless it is approved and tagged
// critical.
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	result, err := h.documents.Delete(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	env := mutationEnvelope(result)
	env["message"] = "Document deleted"
	httputil.RespondEnvelope(w, http.StatusOK, env)
}
