package memory

import (
	"context"
	"fmt"
	"sort"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// MarketplaceStore implements repositories.MarketplaceRepository in memory.
type MarketplaceStore struct {
	c *collection[models.MarketplaceModule]
}

func NewMarketplaceStore() *MarketplaceStore {
	return &MarketplaceStore{c: newCollection(func(m *models.MarketplaceModule) string { return m.ID })}
}

var _ repositories.MarketplaceRepository = (*MarketplaceStore)(nil)

func (s *MarketplaceStore) List(_ context.Context, category string, publishedOnly bool) ([]models.MarketplaceModule, error) {
	out := s.c.List(func(m *models.MarketplaceModule) bool {
		if category != "" && m.Category != category {
			return false
		}
		return !publishedOnly || m.Published
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Installs != out[j].Installs {
			return out[i].Installs > out[j].Installs
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *MarketplaceStore) GetByID(_ context.Context, id string) (*models.MarketplaceModule, error) {
	m, ok := s.c.Get(id)
	if !ok {
		return nil, domain.NotFoundf("Module")
	}
	return &m, nil
}

func (s *MarketplaceStore) Create(_ context.Context, m *models.MarketplaceModule) error {
	dup := s.c.List(func(other *models.MarketplaceModule) bool { return other.Slug == m.Slug })
	if len(dup) > 0 {
		return fmt.Errorf("module %q already exists: %w", m.Slug, domain.ErrConflict)
	}
	s.c.Insert(*m)
	return nil
}

func (s *MarketplaceStore) Update(_ context.Context, m *models.MarketplaceModule) error {
	if !s.c.Replace(*m) {
		return domain.NotFoundf("Module")
	}
	return nil
}

func (s *MarketplaceStore) Delete(_ context.Context, id string) error {
	if !s.c.Remove(id) {
		return domain.NotFoundf("Module")
	}
	return nil
}

func (s *MarketplaceStore) IncrementInstalls(_ context.Context, id string) (*models.MarketplaceModule, error) {
	m, ok := s.c.Mutate(id, func(m *models.MarketplaceModule) { m.Installs++ })
	if !ok {
		return nil, domain.NotFoundf("Module")
	}
	return &m, nil
}
