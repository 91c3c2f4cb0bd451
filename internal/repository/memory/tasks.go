package memory

import (
	"context"
	"time"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// TaskStore implements repositories.TaskRepository in memory.
type TaskStore struct {
	c *collection[models.Task]
}

func NewTaskStore() *TaskStore {
	return &TaskStore{c: newCollection(func(t *models.Task) string { return t.ID })}
}

func (s *TaskStore) List(_ context.Context, filter repositories.TaskFilter) ([]models.Task, error) {
	out := s.c.List(func(t *models.Task) bool {
		if filter.CompanyID != "" && t.CompanyID != filter.CompanyID {
			return false
		}
		if filter.ProjectID != "" && t.ProjectID != filter.ProjectID {
			return false
		}
		if filter.Status != "" && t.Status != filter.Status {
			return false
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			return false
		}
		if filter.Category != "" && t.Category != filter.Category {
			return false
		}
		if filter.AssignedTo != "" && t.AssignedTo != filter.AssignedTo {
			return false
		}
		if len(filter.Tags) > 0 && !tagsIntersect(t.Tags, filter.Tags) {
			return false
		}
		if filter.Search != "" && !containsFold(t.Title, filter.Search) && !containsFold(t.Description, filter.Search) {
			return false
		}
		return inRange(t.CreatedAt, filter.From, filter.To)
	})
	sortNewestFirst(out, func(t *models.Task) time.Time { return t.CreatedAt })
	return out, nil
}

func (s *TaskStore) GetByID(_ context.Context, id string) (*models.Task, error) {
	t, ok := s.c.Get(id)
	if !ok {
		return nil, domain.NotFoundf("Task")
	}
	return &t, nil
}

func (s *TaskStore) Create(_ context.Context, t *models.Task) error {
	s.c.Insert(*t)
	return nil
}

func (s *TaskStore) Update(_ context.Context, t *models.Task) error {
	if !s.c.Replace(*t) {
		return domain.NotFoundf("Task")
	}
	return nil
}

func (s *TaskStore) Delete(_ context.Context, id string) error {
	if !s.c.Remove(id) {
		return domain.NotFoundf("Task")
	}
	return nil
}
