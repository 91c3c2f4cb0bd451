package service

import (
	"context"
	"fmt"
	"log/slog"

	"sitework/internal/config"
	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// Batch operation verbs.
const (
	BatchUpdate         = "update"
	BatchDelete         = "delete"
	BatchAssign         = "assign"
	BatchChangeStatus   = "change_status"
	BatchChangePriority = "change_priority"
	BatchApprove        = "approve"
	BatchReject         = "reject"
	BatchArchive        = "archive"
	BatchChangeCategory = "change_category"
	BatchAddTags        = "add_tags"
	BatchRemoveTags     = "remove_tags"
)

// BatchRequest selects a working set by explicit ids or by filter, then
// applies one verb to every selected record.
type BatchRequest struct {
	Operation string         `json:"operation"`
	IDs       []string       `json:"ids"`
	Filter    map[string]any `json:"filter"`
	// Verb parameters
	Status     string         `json:"status"`
	Priority   string         `json:"priority"`
	Category   string         `json:"category"`
	AssignedTo string         `json:"assigned_to"`
	Tags       []string       `json:"tags"`
	Update     map[string]any `json:"update"`
}

// BatchResult accumulates per-record outcomes.
type BatchResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// BatchService applies bulk verbs to documents and tasks through their
// owning services so every per-record rule still runs.
type BatchService struct {
	documents *DocumentService
	tasks     *TaskService
	logger    *slog.Logger
}

func NewBatchService(documents *DocumentService, tasks *TaskService, logger *slog.Logger) *BatchService {
	return &BatchService{documents: documents, tasks: tasks, logger: logger}
}

var batchVerbs = map[string]bool{
	BatchUpdate: true, BatchDelete: true, BatchAssign: true,
	BatchChangeStatus: true, BatchChangePriority: true, BatchApprove: true,
	BatchReject: true, BatchArchive: true, BatchChangeCategory: true,
	BatchAddTags: true, BatchRemoveTags: true,
}

// Documents applies the batch verb to documents. An empty match set is
// reported as not found and performs zero mutations.
func (s *BatchService) Documents(ctx context.Context, caller models.AuthContext, req *BatchRequest) (*BatchResult, error) {
	if !batchVerbs[req.Operation] {
		return nil, domain.Validationf("unknown batch operation %q", req.Operation)
	}

	ids := req.IDs
	if len(ids) == 0 {
		docs, _, err := s.documents.List(ctx, caller, docFilterFromMap(req.Filter))
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			ids = append(ids, d.ID)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no documents matched the given ids or filter", domain.ErrNotFound)
	}
	if len(ids) > config.MaxBatchSize {
		return nil, domain.Validationf("batch exceeds %d records", config.MaxBatchSize)
	}

	result := &BatchResult{}
	for _, id := range ids {
		if err := s.applyDocumentVerb(ctx, caller, id, req); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		result.Success++
	}

	s.logger.Info("batch documents complete",
		"operation", req.Operation, "success", result.Success, "failed", result.Failed)
	return result, nil
}

func (s *BatchService) applyDocumentVerb(ctx context.Context, caller models.AuthContext, id string, req *BatchRequest) error {
	switch req.Operation {
	case BatchDelete:
		_, err := s.documents.Delete(ctx, caller, id)
		return err
	case BatchApprove:
		status := models.DocumentStatusApproved
		_, err := s.documents.Update(ctx, caller, id, &UpdateDocumentRequest{Status: &status})
		return err
	case BatchReject:
		status := models.DocumentStatusRejected
		_, err := s.documents.Update(ctx, caller, id, &UpdateDocumentRequest{Status: &status})
		return err
	case BatchArchive:
		status := models.DocumentStatusArchived
		_, err := s.documents.Update(ctx, caller, id, &UpdateDocumentRequest{Status: &status})
		return err
	case BatchChangeStatus:
		_, err := s.documents.Update(ctx, caller, id, &UpdateDocumentRequest{Status: &req.Status})
		return err
	case BatchChangeCategory:
		_, err := s.documents.Update(ctx, caller, id, &UpdateDocumentRequest{Category: &req.Category})
		return err
	case BatchAddTags:
		doc, err := s.documents.Get(ctx, caller, id)
		if err != nil {
			return err
		}
		tags := mergeTags(doc.Tags, req.Tags)
		_, err = s.documents.Update(ctx, caller, id, &UpdateDocumentRequest{Tags: &tags})
		return err
	case BatchRemoveTags:
		doc, err := s.documents.Get(ctx, caller, id)
		if err != nil {
			return err
		}
		tags := removeTags(doc.Tags, req.Tags)
		_, err = s.documents.Update(ctx, caller, id, &UpdateDocumentRequest{Tags: &tags})
		return err
	case BatchUpdate:
		patch := docPatchFromMap(req.Update)
		_, err := s.documents.Update(ctx, caller, id, patch)
		return err
	default:
		return domain.Validationf("operation %q does not apply to documents", req.Operation)
	}
}

// Tasks applies the batch verb to tasks.
func (s *BatchService) Tasks(ctx context.Context, caller models.AuthContext, req *BatchRequest) (*BatchResult, error) {
	if !batchVerbs[req.Operation] {
		return nil, domain.Validationf("unknown batch operation %q", req.Operation)
	}

	ids := req.IDs
	if len(ids) == 0 {
		tasks, _, err := s.tasks.List(ctx, caller, taskFilterFromMap(req.Filter))
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no tasks matched the given ids or filter", domain.ErrNotFound)
	}
	if len(ids) > config.MaxBatchSize {
		return nil, domain.Validationf("batch exceeds %d records", config.MaxBatchSize)
	}

	result := &BatchResult{}
	for _, id := range ids {
		if err := s.applyTaskVerb(ctx, caller, id, req); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		result.Success++
	}

	s.logger.Info("batch tasks complete",
		"operation", req.Operation, "success", result.Success, "failed", result.Failed)
	return result, nil
}

func (s *BatchService) applyTaskVerb(ctx context.Context, caller models.AuthContext, id string, req *BatchRequest) error {
	switch req.Operation {
	case BatchDelete:
		_, err := s.tasks.Delete(ctx, caller, id)
		return err
	case BatchAssign:
		_, err := s.tasks.Update(ctx, caller, id, &UpdateTaskRequest{AssignedTo: &req.AssignedTo})
		return err
	case BatchChangeStatus:
		_, err := s.tasks.Update(ctx, caller, id, &UpdateTaskRequest{Status: &req.Status})
		return err
	case BatchChangePriority:
		_, err := s.tasks.Update(ctx, caller, id, &UpdateTaskRequest{Priority: &req.Priority})
		return err
	case BatchChangeCategory:
		_, err := s.tasks.Update(ctx, caller, id, &UpdateTaskRequest{Category: &req.Category})
		return err
	case BatchAddTags:
		task, err := s.tasks.Get(ctx, caller, id)
		if err != nil {
			return err
		}
		tags := mergeTags(task.Tags, req.Tags)
		_, err = s.tasks.Update(ctx, caller, id, &UpdateTaskRequest{Tags: &tags})
		return err
	case BatchRemoveTags:
		task, err := s.tasks.Get(ctx, caller, id)
		if err != nil {
			return err
		}
		tags := removeTags(task.Tags, req.Tags)
		_, err = s.tasks.Update(ctx, caller, id, &UpdateTaskRequest{Tags: &tags})
		return err
	case BatchUpdate:
		patch := taskPatchFromMap(req.Update)
		_, err := s.tasks.Update(ctx, caller, id, patch)
		return err
	default:
		return domain.Validationf("operation %q does not apply to tasks", req.Operation)
	}
}

func mergeTags(existing, add []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(existing)+len(add))
	for _, t := range existing {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range add {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func removeTags(existing, drop []string) []string {
	dropSet := map[string]bool{}
	for _, t := range drop {
		dropSet[t] = true
	}
	out := make([]string, 0, len(existing))
	for _, t := range existing {
		if !dropSet[t] {
			out = append(out, t)
		}
	}
	return out
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func docFilterFromMap(m map[string]any) repositories.ListFilter {
	return repositories.ListFilter{
		ProjectID: stringField(m, "project_id"),
		Status:    stringField(m, "status"),
		Category:  stringField(m, "category"),
		Search:    stringField(m, "search"),
	}
}

func taskFilterFromMap(m map[string]any) repositories.TaskFilter {
	return repositories.TaskFilter{
		ListFilter: repositories.ListFilter{
			ProjectID: stringField(m, "project_id"),
			Status:    stringField(m, "status"),
			Category:  stringField(m, "category"),
			Search:    stringField(m, "search"),
		},
		AssignedTo: stringField(m, "assigned_to"),
		Priority:   stringField(m, "priority"),
	}
}

func docPatchFromMap(m map[string]any) *UpdateDocumentRequest {
	patch := &UpdateDocumentRequest{}
	if v, ok := m["name"].(string); ok {
		patch.Name = &v
	}
	if v, ok := m["description"].(string); ok {
		patch.Description = &v
	}
	if v, ok := m["category"].(string); ok {
		patch.Category = &v
	}
	if v, ok := m["status"].(string); ok {
		patch.Status = &v
	}
	return patch
}

func taskPatchFromMap(m map[string]any) *UpdateTaskRequest {
	patch := &UpdateTaskRequest{}
	if v, ok := m["title"].(string); ok {
		patch.Title = &v
	}
	if v, ok := m["description"].(string); ok {
		patch.Description = &v
	}
	if v, ok := m["status"].(string); ok {
		patch.Status = &v
	}
	if v, ok := m["priority"].(string); ok {
		patch.Priority = &v
	}
	if v, ok := m["assigned_to"].(string); ok {
		patch.AssignedTo = &v
	}
	return patch
}
