package memory

import (
	"context"
	"time"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// DocumentStore implements repositories.DocumentRepository in memory.
type DocumentStore struct {
	c *collection[models.Document]
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{c: newCollection(func(d *models.Document) string { return d.ID })}
}

func (s *DocumentStore) List(_ context.Context, filter repositories.ListFilter) ([]models.Document, error) {
	out := s.c.List(func(d *models.Document) bool {
		if filter.CompanyID != "" && d.CompanyID != filter.CompanyID {
			return false
		}
		if filter.ProjectID != "" && d.ProjectID != filter.ProjectID {
			return false
		}
		if filter.Status != "" && d.Status != filter.Status {
			return false
		}
		if filter.Category != "" && d.Category != filter.Category {
			return false
		}
		if len(filter.Tags) > 0 && !tagsIntersect(d.Tags, filter.Tags) {
			return false
		}
		if filter.Search != "" && !containsFold(d.Name, filter.Search) && !containsFold(d.Description, filter.Search) {
			return false
		}
		return inRange(d.CreatedAt, filter.From, filter.To)
	})
	sortNewestFirst(out, func(d *models.Document) time.Time { return d.CreatedAt })
	return out, nil
}

func (s *DocumentStore) GetByID(_ context.Context, id string) (*models.Document, error) {
	d, ok := s.c.Get(id)
	if !ok {
		return nil, domain.NotFoundf("Document")
	}
	return &d, nil
}

func (s *DocumentStore) Create(_ context.Context, d *models.Document) error {
	s.c.Insert(*d)
	return nil
}

func (s *DocumentStore) Update(_ context.Context, d *models.Document) error {
	if !s.c.Replace(*d) {
		return domain.NotFoundf("Document")
	}
	return nil
}

func (s *DocumentStore) Delete(_ context.Context, id string) error {
	if !s.c.Remove(id) {
		return domain.NotFoundf("Document")
	}
	return nil
}
