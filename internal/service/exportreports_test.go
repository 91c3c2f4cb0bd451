package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
)

func newReportEnv(t *testing.T) (*ReportService, *testEnv) {
	t.Helper()
	env := newTestEnv()
	env.stores.Projects.Insert(models.Project{
		ID: "proj-1", CompanyID: "c1", Name: "Dockside Warehouse",
		Status: models.ProjectStatusActive, Budget: 800000,
	})
	env.stores.Invoices.Insert(models.Invoice{
		ID: "inv-1", CompanyID: "c1", ProjectID: "proj-1",
		InvoiceNumber: "INV-001", Status: models.InvoiceStatusSent,
		Total: 1085, Balance: 1085,
	})
	svc := NewReportService(env.stores.Projects, env.stores.Tasks,
		env.stores.Invoices, env.stores.Milestones, env.logger)
	return svc, env
}

func TestExportReportJSON(t *testing.T) {
	svc, _ := newReportEnv(t)

	report, err := svc.Export(context.Background(), adminCaller(), ReportProjectStatus, FormatJSON)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if report.Type != ReportProjectStatus {
		t.Errorf("Type = %q, want project_status", report.Type)
	}
	if report.Format != FormatJSON {
		t.Errorf("Format = %q, want json", report.Format)
	}
	if report.Body == nil {
		t.Error("Body is nil")
	}
	if report.GeneratedAt.IsZero() {
		t.Error("GeneratedAt is zero")
	}
}

func TestExportReportHTML(t *testing.T) {
	svc, _ := newReportEnv(t)

	report, err := svc.Export(context.Background(), adminCaller(), ReportFinancial, FormatHTML)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(report.HTML, "<table") {
		t.Errorf("HTML output missing table: %q", report.HTML)
	}
	if !strings.Contains(report.HTML, "INV-001") {
		t.Errorf("HTML output missing invoice row: %q", report.HTML)
	}
}

func TestExportReportPDFNotImplemented(t *testing.T) {
	svc, _ := newReportEnv(t)

	_, err := svc.Export(context.Background(), adminCaller(), ReportTasks, FormatPDF)
	if !errors.Is(err, ErrPDFNotImplemented) {
		t.Errorf("Export(pdf) error = %v, want ErrPDFNotImplemented", err)
	}
}

func TestExportReportBadInputs(t *testing.T) {
	svc, _ := newReportEnv(t)
	ctx := context.Background()

	if _, err := svc.Export(ctx, adminCaller(), "payroll", FormatJSON); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Export(unknown type) error = %v, want validation error", err)
	}
	if _, err := svc.Export(ctx, adminCaller(), ReportTasks, "docx"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Export(unknown format) error = %v, want validation error", err)
	}
}

func TestExportReportDefaultsToJSON(t *testing.T) {
	svc, _ := newReportEnv(t)

	report, err := svc.Export(context.Background(), adminCaller(), ReportMilestones, "")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if report.Format != FormatJSON {
		t.Errorf("Format = %q, want json default", report.Format)
	}
}
