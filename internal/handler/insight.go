package handler

import (
	"log/slog"
	"net/http"

	"sitework/internal/httputil"
	"sitework/internal/service"
)

// InsightHandler serves the decision-table insight report.
type InsightHandler struct {
	insights  *service.InsightService
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

func NewInsightHandler(insights *service.InsightService, analytics *service.AnalyticsService, logger *slog.Logger) *InsightHandler {
	return &InsightHandler{insights: insights, analytics: analytics, logger: logger}
}

// GetInsights computes current metrics, evaluates the rule table and returns
// triggered insights plus the weighted success probability.
// GET /api/ai/insights
func (h *InsightHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	report, err := h.insights.Report(r.Context(), caller, r.URL.Query().Get("project_id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, report)
}

// GetPerformance returns the requested performance metric groups. The scope
// parameter is required.
// GET /api/analytics/performance
func (h *InsightHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	caller, ok := mustAuth(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	report, err := h.analytics.Performance(r.Context(), caller, service.PerformanceRequest{
		Scope:   q.Get("scope"),
		Metrics: q.Get("metrics"),
	})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, report)
}
