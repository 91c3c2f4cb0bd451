package memory

import (
	"context"
	"time"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// MilestoneStore implements repositories.MilestoneRepository in memory.
type MilestoneStore struct {
	c *collection[models.Milestone]
}

func NewMilestoneStore() *MilestoneStore {
	return &MilestoneStore{c: newCollection(func(m *models.Milestone) string { return m.ID })}
}

func (s *MilestoneStore) List(_ context.Context, filter repositories.ListFilter) ([]models.Milestone, error) {
	out := s.c.List(func(m *models.Milestone) bool {
		if filter.CompanyID != "" && m.CompanyID != filter.CompanyID {
			return false
		}
		if filter.ProjectID != "" && m.ProjectID != filter.ProjectID {
			return false
		}
		if filter.Status != "" && m.Status != filter.Status {
			return false
		}
		if filter.Search != "" && !containsFold(m.Name, filter.Search) && !containsFold(m.Description, filter.Search) {
			return false
		}
		return inRange(m.CreatedAt, filter.From, filter.To)
	})
	sortNewestFirst(out, func(m *models.Milestone) time.Time { return m.CreatedAt })
	return out, nil
}

func (s *MilestoneStore) GetByID(_ context.Context, id string) (*models.Milestone, error) {
	m, ok := s.c.Get(id)
	if !ok {
		return nil, domain.NotFoundf("Milestone")
	}
	return &m, nil
}

func (s *MilestoneStore) Create(_ context.Context, m *models.Milestone) error {
	s.c.Insert(*m)
	return nil
}

func (s *MilestoneStore) Update(_ context.Context, m *models.Milestone) error {
	if !s.c.Replace(*m) {
		return domain.NotFoundf("Milestone")
	}
	return nil
}

func (s *MilestoneStore) Delete(_ context.Context, id string) error {
	if !s.c.Remove(id) {
		return domain.NotFoundf("Milestone")
	}
	return nil
}
