package memory

import (
	"context"
	"time"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// SubcontractorStore implements repositories.SubcontractorRepository in memory.
type SubcontractorStore struct {
	c *collection[models.Subcontractor]
}

func NewSubcontractorStore() *SubcontractorStore {
	return &SubcontractorStore{c: newCollection(func(s *models.Subcontractor) string { return s.ID })}
}

func (s *SubcontractorStore) List(_ context.Context, filter repositories.SubcontractorFilter) ([]models.Subcontractor, error) {
	out := s.c.List(func(sc *models.Subcontractor) bool {
		if filter.CompanyID != "" && sc.CompanyID != filter.CompanyID {
			return false
		}
		if filter.Trade != "" && sc.Trade != filter.Trade {
			return false
		}
		if filter.Status != "" && sc.Status != filter.Status {
			return false
		}
		if filter.MinRating > 0 && sc.Rating < filter.MinRating {
			return false
		}
		if filter.InsuranceBefore != nil {
			if sc.InsuranceExpiry == nil || !sc.InsuranceExpiry.Before(*filter.InsuranceBefore) {
				return false
			}
		}
		if filter.Search != "" && !containsFold(sc.Name, filter.Search) && !containsFold(sc.Trade, filter.Search) {
			return false
		}
		return true
	})
	sortNewestFirst(out, func(sc *models.Subcontractor) time.Time { return sc.CreatedAt })
	return out, nil
}

func (s *SubcontractorStore) GetByID(_ context.Context, id string) (*models.Subcontractor, error) {
	sc, ok := s.c.Get(id)
	if !ok {
		return nil, domain.NotFoundf("Subcontractor")
	}
	return &sc, nil
}

func (s *SubcontractorStore) Create(_ context.Context, sc *models.Subcontractor) error {
	s.c.Insert(*sc)
	return nil
}

func (s *SubcontractorStore) Update(_ context.Context, sc *models.Subcontractor) error {
	if !s.c.Replace(*sc) {
		return domain.NotFoundf("Subcontractor")
	}
	return nil
}
