package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/scoring"
)

// Report types and formats.
const (
	ReportProjectStatus = "project_status"
	ReportFinancial     = "financial"
	ReportTasks         = "task_summary"
	ReportMilestones    = "milestone_status"

	FormatJSON = "json"
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// ErrPDFNotImplemented maps to 501 at the handler.
var ErrPDFNotImplemented = fmt.Errorf("pdf export is not implemented")

// ReportService renders read-only reports from the current collections.
type ReportService struct {
	projects   repositories.ProjectRepository
	tasks      repositories.TaskRepository
	invoices   repositories.InvoiceRepository
	milestones repositories.MilestoneRepository
	logger     *slog.Logger
}

func NewReportService(
	projects repositories.ProjectRepository,
	tasks repositories.TaskRepository,
	invoices repositories.InvoiceRepository,
	milestones repositories.MilestoneRepository,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		projects:   projects,
		tasks:      tasks,
		invoices:   invoices,
		milestones: milestones,
		logger:     logger,
	}
}

// Report is the export payload. Body is set for json, HTML for html.
type Report struct {
	Type        string    `json:"report_type"`
	Format      string    `json:"format"`
	GeneratedAt time.Time `json:"generated_at"`
	Body        any       `json:"body,omitempty"`
	HTML        string    `json:"-"`
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>Generated {{.GeneratedAt}}</p>
<table border="1" cellpadding="4">
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
</table>
</body>
</html>
`))

type reportTable struct {
	Title       string
	GeneratedAt string
	Columns     []string
	Rows        [][]string
}

// Export builds the requested report. Format defaults to json; pdf returns
// ErrPDFNotImplemented.
func (s *ReportService) Export(ctx context.Context, caller models.AuthContext, reportType, format string) (*Report, error) {
	if format == "" {
		format = FormatJSON
	}
	switch format {
	case FormatJSON, FormatHTML:
	case FormatPDF:
		return nil, ErrPDFNotImplemented
	default:
		return nil, domain.Validationf("unknown format %q", format)
	}

	filter := repositories.ListFilter{CompanyID: scopeCompany(caller, "")}
	var table *reportTable
	var body any
	var err error

	switch reportType {
	case ReportProjectStatus:
		body, table, err = s.projectStatus(ctx, filter)
	case ReportFinancial:
		body, table, err = s.financial(ctx, filter)
	case ReportTasks:
		body, table, err = s.taskSummary(ctx, filter)
	case ReportMilestones:
		body, table, err = s.milestoneStatus(ctx, filter)
	default:
		return nil, domain.Validationf("unknown report_type %q", reportType)
	}
	if err != nil {
		return nil, err
	}

	report := &Report{Type: reportType, Format: format, GeneratedAt: nowUTC()}
	if format == FormatHTML {
		table.GeneratedAt = report.GeneratedAt.Format(time.RFC3339)
		var buf bytes.Buffer
		if err := reportTemplate.Execute(&buf, table); err != nil {
			return nil, fmt.Errorf("rendering report: %w", err)
		}
		report.HTML = buf.String()
	} else {
		report.Body = body
	}

	s.logger.Info("report exported", "report_type", reportType, "format", format)
	return report, nil
}

func (s *ReportService) projectStatus(ctx context.Context, filter repositories.ListFilter) (any, *reportTable, error) {
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	table := &reportTable{
		Title:   "Project Status",
		Columns: []string{"Name", "Status", "Budget"},
	}
	for _, p := range projects {
		table.Rows = append(table.Rows, []string{p.Name, p.Status, fmt.Sprintf("%.2f", p.Budget)})
	}
	return projects, table, nil
}

func (s *ReportService) financial(ctx context.Context, filter repositories.ListFilter) (any, *reportTable, error) {
	invoices, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	var invoiced, collected, outstanding float64
	table := &reportTable{
		Title:   "Financial Summary",
		Columns: []string{"Invoice", "Status", "Total", "Balance"},
	}
	for _, inv := range invoices {
		invoiced += inv.Total
		collected += inv.PaidAmount
		outstanding += inv.Balance
		table.Rows = append(table.Rows, []string{
			inv.InvoiceNumber, inv.Status,
			fmt.Sprintf("%.2f", inv.Total), fmt.Sprintf("%.2f", inv.Balance),
		})
	}
	body := map[string]any{
		"invoices":          invoices,
		"total_invoiced":    invoiced,
		"total_collected":   collected,
		"total_outstanding": outstanding,
	}
	return body, table, nil
}

func (s *ReportService) taskSummary(ctx context.Context, filter repositories.ListFilter) (any, *reportTable, error) {
	tasks, err := s.tasks.List(ctx, repositories.TaskFilter{ListFilter: filter})
	if err != nil {
		return nil, nil, err
	}
	byStatus := map[string]int{}
	for _, t := range tasks {
		byStatus[t.Status]++
	}
	table := &reportTable{
		Title:   "Task Summary",
		Columns: []string{"Title", "Status", "Priority", "Assigned To"},
	}
	for _, t := range tasks {
		table.Rows = append(table.Rows, []string{t.Title, t.Status, t.Priority, t.AssignedTo})
	}
	body := map[string]any{"tasks": tasks, "by_status": byStatus}
	return body, table, nil
}

func (s *ReportService) milestoneStatus(ctx context.Context, filter repositories.ListFilter) (any, *reportTable, error) {
	milestones, err := s.milestones.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	now := nowUTC()
	table := &reportTable{
		Title:   "Milestone Status",
		Columns: []string{"Name", "Status", "Progress", "Health"},
	}
	for i := range milestones {
		m := &milestones[i]
		m.HealthScore = scoring.MilestoneHealth(m, now)
		table.Rows = append(table.Rows, []string{
			m.Name, m.Status,
			fmt.Sprintf("%d%%", m.Progress), fmt.Sprintf("%d", m.HealthScore),
		})
	}
	return milestones, table, nil
}
