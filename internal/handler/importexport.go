package handler

import (
	"log/slog"
	"net/http"

	"sitework/internal/httputil"
	"sitework/internal/service"
)

// ImportExportHandler handles bulk data import and report export.
type ImportExportHandler struct {
	importer *service.ImportService
	reports  *service.ReportService
	logger   *slog.Logger
}

func NewImportExportHandler(importer *service.ImportService, reports *service.ReportService, logger *slog.Logger) *ImportExportHandler {
	return &ImportExportHandler{importer: importer, reports: reports, logger: logger}
}

// ImportData validates and persists uploaded rows. Row failures are
// reported individually with 1-based row numbers; the request itself
// succeeds unless the payload is malformed.
// POST /api/import/data
func (h *ImportExportHandler) ImportData(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var req service.ImportRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.importer.Import(r.Context(), caller, req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, result)
}

// ExportReport renders a report. format=json returns the payload in the
// envelope; format=html returns text/html; format=pdf responds 501.
// GET /api/export/reports
func (h *ImportExportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	report, err := h.reports.Export(r.Context(), caller, q.Get("report_type"), q.Get("format"))
	if err != nil {
		handleError(w, err)
		return
	}

	if report.Format == service.FormatHTML {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(report.HTML))
		return
	}
	httputil.RespondData(w, http.StatusOK, report)
}
