package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitework/internal/config"
	"sitework/internal/domain"
	"sitework/internal/domain/models"
)

// Import entity types and modes.
const (
	ImportEntityTasks       = "tasks"
	ImportEntityProjects    = "projects"
	ImportEntityClients     = "clients"
	ImportEntityTimeEntries = "time_entries"

	ImportModeCreate = "create"
	ImportModeUpdate = "update"
	ImportModeUpsert = "upsert"
)

// requiredImportFields lists the columns each entity type must supply.
var requiredImportFields = map[string][]string{
	ImportEntityTasks:       {"title"},
	ImportEntityProjects:    {"name"},
	ImportEntityClients:     {"name", "email"},
	ImportEntityTimeEntries: {"task_id", "hours"},
}

// ImportService parses uploaded JSON or CSV payloads into resource records.
// Tasks and projects are persisted through their services; clients and time
// entries are validated and counted only, since no store backs them yet.
type ImportService struct {
	tasks    *TaskService
	projects *ProjectService
	logger   *slog.Logger
}

func NewImportService(tasks *TaskService, projects *ProjectService, logger *slog.Logger) *ImportService {
	return &ImportService{tasks: tasks, projects: projects, logger: logger}
}

// ImportRequest is the POST /api/import/data body. Data carries the payload
// verbatim: a JSON array for format json, raw text for format csv.
type ImportRequest struct {
	EntityType string          `json:"entity_type"`
	Format     string          `json:"format"`
	Mode       string          `json:"mode"`
	DryRun     bool            `json:"dry_run"`
	Data       json.RawMessage `json:"data"`
}

func (r ImportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EntityType, validation.Required,
			validation.In(ImportEntityTasks, ImportEntityProjects, ImportEntityClients, ImportEntityTimeEntries)),
		validation.Field(&r.Format, validation.Required, validation.In("json", "csv")),
		validation.Field(&r.Mode, validation.In(ImportModeCreate, ImportModeUpdate, ImportModeUpsert)),
		validation.Field(&r.Data, validation.Required),
	)
}

// RowError points at a failed row by its 1-based position in the payload.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes one import run.
type ImportResult struct {
	EntityType string     `json:"entity_type"`
	Mode       string     `json:"mode"`
	DryRun     bool       `json:"dry_run"`
	Total      int        `json:"total"`
	Imported   int        `json:"imported"`
	Failed     int        `json:"failed"`
	Errors     []RowError `json:"errors"`
}

// Import validates and, unless dry_run is set, persists the parsed rows.
func (s *ImportService) Import(ctx context.Context, caller models.AuthContext, req ImportRequest) (*ImportResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	mode := req.Mode
	if mode == "" {
		mode = ImportModeCreate
	}

	var rows []map[string]string
	var err error
	switch req.Format {
	case "json":
		rows, err = parseJSONRows(req.Data)
	case "csv":
		rows, err = parseCSVRows(req.Data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if len(rows) > config.MaxImportRows {
		return nil, domain.Validationf("import exceeds %d rows", config.MaxImportRows)
	}

	result := &ImportResult{
		EntityType: req.EntityType,
		Mode:       mode,
		DryRun:     req.DryRun,
		Total:      len(rows),
		Errors:     []RowError{},
	}

	required := requiredImportFields[req.EntityType]
	for i, row := range rows {
		rowNum := i + 1
		if msg := missingFields(row, required); msg != "" {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: msg})
			continue
		}
		if req.DryRun {
			result.Imported++
			continue
		}
		if err := s.persistRow(ctx, caller, req.EntityType, mode, row); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Imported++
	}

	s.logger.Info("import completed",
		"entity_type", req.EntityType, "mode", mode, "dry_run", req.DryRun,
		"total", result.Total, "imported", result.Imported, "failed", result.Failed)
	return result, nil
}

func (s *ImportService) persistRow(ctx context.Context, caller models.AuthContext, entityType, mode string, row map[string]string) error {
	switch entityType {
	case ImportEntityTasks:
		return s.persistTask(ctx, caller, mode, row)
	case ImportEntityProjects:
		return s.persistProject(ctx, caller, mode, row)
	default:
		// Clients and time entries are validated only until a store exists
		// for them.
		return nil
	}
}

func (s *ImportService) persistTask(ctx context.Context, caller models.AuthContext, mode string, row map[string]string) error {
	id := row["id"]
	if mode == ImportModeUpdate || (mode == ImportModeUpsert && id != "") {
		patch := &UpdateTaskRequest{}
		if v, ok := row["title"]; ok {
			patch.Title = &v
		}
		if v, ok := row["status"]; ok && v != "" {
			patch.Status = &v
		}
		if v, ok := row["priority"]; ok && v != "" {
			patch.Priority = &v
		}
		if v, ok := row["assigned_to"]; ok && v != "" {
			patch.AssignedTo = &v
		}
		_, err := s.tasks.Update(ctx, caller, id, patch)
		if mode == ImportModeUpsert && err != nil && isNotFound(err) {
			return s.createTaskRow(ctx, caller, row)
		}
		return err
	}
	return s.createTaskRow(ctx, caller, row)
}

func (s *ImportService) createTaskRow(ctx context.Context, caller models.AuthContext, row map[string]string) error {
	_, err := s.tasks.Create(ctx, caller, &CreateTaskRequest{
		CompanyID:   caller.CompanyID,
		ProjectID:   row["project_id"],
		Title:       row["title"],
		Description: row["description"],
		Status:      row["status"],
		Priority:    row["priority"],
		Category:    row["category"],
		AssignedTo:  row["assigned_to"],
	})
	return err
}

func (s *ImportService) persistProject(ctx context.Context, caller models.AuthContext, mode string, row map[string]string) error {
	id := row["id"]
	if mode == ImportModeUpdate || (mode == ImportModeUpsert && id != "") {
		patch := &UpdateProjectRequest{}
		if v, ok := row["name"]; ok {
			patch.Name = &v
		}
		if v, ok := row["status"]; ok && v != "" {
			patch.Status = &v
		}
		if v, ok := row["description"]; ok && v != "" {
			patch.Description = &v
		}
		_, err := s.projects.Update(ctx, caller, id, patch)
		if mode == ImportModeUpsert && err != nil && isNotFound(err) {
			return s.createProjectRow(ctx, caller, row)
		}
		return err
	}
	return s.createProjectRow(ctx, caller, row)
}

func (s *ImportService) createProjectRow(ctx context.Context, caller models.AuthContext, row map[string]string) error {
	budget := 0.0
	if v := row["budget"]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.Validationf("invalid budget %q", v)
		}
		budget = f
	}
	_, err := s.projects.Create(ctx, caller, &CreateProjectRequest{
		CompanyID:   caller.CompanyID,
		Name:        row["name"],
		Description: row["description"],
		Status:      row["status"],
		Budget:      budget,
	})
	return err
}

func missingFields(row map[string]string, required []string) string {
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(row[f]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return "missing required field " + strings.Join(missing, ", ")
}

func parseJSONRows(data json.RawMessage) ([]map[string]string, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("data must be a JSON array of objects: %v", err)
	}
	rows := make([]map[string]string, 0, len(raw))
	for _, obj := range raw {
		row := make(map[string]string, len(obj))
		for k, v := range obj {
			switch t := v.(type) {
			case string:
				row[k] = t
			case float64:
				row[k] = strconv.FormatFloat(t, 'f', -1, 64)
			case bool:
				row[k] = strconv.FormatBool(t)
			case nil:
			default:
				b, _ := json.Marshal(t)
				row[k] = string(b)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseCSVRows splits on newlines and commas and strips surrounding quotes.
// Embedded commas or newlines inside quoted fields are not supported.
func parseCSVRows(data json.RawMessage) ([]map[string]string, error) {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		text = string(data)
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var records [][]string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		for i, f := range fields {
			fields[i] = strings.Trim(strings.TrimSpace(f), `"'`)
		}
		records = append(records, fields)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv payload needs a header row and at least one data row")
	}
	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[strings.TrimSpace(col)] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
