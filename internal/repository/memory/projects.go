package memory

import (
	"context"
	"time"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// ProjectStore implements repositories.ProjectRepository in memory.
type ProjectStore struct {
	c *collection[models.Project]
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{c: newCollection(func(p *models.Project) string { return p.ID })}
}

func (s *ProjectStore) List(_ context.Context, filter repositories.ListFilter) ([]models.Project, error) {
	out := s.c.List(func(p *models.Project) bool {
		if filter.CompanyID != "" && p.CompanyID != filter.CompanyID {
			return false
		}
		if filter.Status != "" && p.Status != filter.Status {
			return false
		}
		if len(filter.Tags) > 0 && !tagsIntersect(p.Tags, filter.Tags) {
			return false
		}
		if filter.Search != "" && !containsFold(p.Name, filter.Search) && !containsFold(p.Description, filter.Search) {
			return false
		}
		return inRange(p.CreatedAt, filter.From, filter.To)
	})
	sortNewestFirst(out, func(p *models.Project) time.Time { return p.CreatedAt })
	return out, nil
}

func (s *ProjectStore) GetByID(_ context.Context, id string) (*models.Project, error) {
	p, ok := s.c.Get(id)
	if !ok {
		return nil, domain.NotFoundf("Project")
	}
	return &p, nil
}

func (s *ProjectStore) Create(_ context.Context, p *models.Project) error {
	s.c.Insert(*p)
	return nil
}

func (s *ProjectStore) Update(_ context.Context, p *models.Project) error {
	if !s.c.Replace(*p) {
		return domain.NotFoundf("Project")
	}
	return nil
}

func (s *ProjectStore) Delete(_ context.Context, id string) error {
	if !s.c.Remove(id) {
		return domain.NotFoundf("Project")
	}
	return nil
}
