package memory

import (
	"context"
	"time"

	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// ActivityStore implements repositories.ActivityRepository in memory.
// Activities are append-only.
type ActivityStore struct {
	c *collection[models.Activity]
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{c: newCollection(func(a *models.Activity) string { return a.ID })}
}

func (s *ActivityStore) List(_ context.Context, filter repositories.ActivityFilter) ([]models.Activity, error) {
	out := s.c.List(func(a *models.Activity) bool {
		if filter.CompanyID != "" && a.CompanyID != filter.CompanyID {
			return false
		}
		if filter.ProjectID != "" && a.ProjectID != filter.ProjectID {
			return false
		}
		if filter.UserID != "" && a.UserID != filter.UserID {
			return false
		}
		if filter.EntityType != "" && a.EntityType != filter.EntityType {
			return false
		}
		if filter.EntityID != "" && a.EntityID != filter.EntityID {
			return false
		}
		if filter.Action != "" && a.Action != filter.Action {
			return false
		}
		if filter.Search != "" && !containsFold(a.EntityName, filter.Search) && !containsFold(a.Details, filter.Search) {
			return false
		}
		return inRange(a.CreatedAt, filter.From, filter.To)
	})
	sortNewestFirst(out, func(a *models.Activity) time.Time { return a.CreatedAt })
	return out, nil
}

func (s *ActivityStore) Create(_ context.Context, a *models.Activity) error {
	s.c.Insert(*a)
	return nil
}
