package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// InvoiceStore implements repositories.InvoiceRepository in memory.
type InvoiceStore struct {
	c *collection[models.Invoice]
}

func NewInvoiceStore() *InvoiceStore {
	return &InvoiceStore{c: newCollection(func(i *models.Invoice) string { return i.ID })}
}

func (s *InvoiceStore) List(_ context.Context, filter repositories.ListFilter) ([]models.Invoice, error) {
	out := s.c.List(func(i *models.Invoice) bool {
		if filter.CompanyID != "" && i.CompanyID != filter.CompanyID {
			return false
		}
		if filter.ProjectID != "" && i.ProjectID != filter.ProjectID {
			return false
		}
		if filter.Status != "" && i.Status != filter.Status {
			return false
		}
		if filter.Search != "" && !containsFold(i.InvoiceNumber, filter.Search) && !containsFold(i.ClientID, filter.Search) {
			return false
		}
		return inRange(i.CreatedAt, filter.From, filter.To)
	})
	sortNewestFirst(out, func(i *models.Invoice) time.Time { return i.CreatedAt })
	return out, nil
}

func (s *InvoiceStore) GetByID(_ context.Context, id string) (*models.Invoice, error) {
	i, ok := s.c.Get(id)
	if !ok {
		return nil, domain.NotFoundf("Invoice")
	}
	return &i, nil
}

func (s *InvoiceStore) Create(_ context.Context, inv *models.Invoice) error {
	s.c.Insert(*inv)
	return nil
}

func (s *InvoiceStore) Update(_ context.Context, inv *models.Invoice) error {
	if !s.c.Replace(*inv) {
		return domain.NotFoundf("Invoice")
	}
	return nil
}

func (s *InvoiceStore) Delete(_ context.Context, id string) error {
	if !s.c.Remove(id) {
		return domain.NotFoundf("Invoice")
	}
	return nil
}

// PurchaseOrderStore implements repositories.PurchaseOrderRepository in memory.
type PurchaseOrderStore struct {
	c *collection[models.PurchaseOrder]
}

func NewPurchaseOrderStore() *PurchaseOrderStore {
	return &PurchaseOrderStore{c: newCollection(func(p *models.PurchaseOrder) string { return p.ID })}
}

func (s *PurchaseOrderStore) List(_ context.Context, filter repositories.ListFilter) ([]models.PurchaseOrder, error) {
	out := s.c.List(func(p *models.PurchaseOrder) bool {
		if filter.CompanyID != "" && p.CompanyID != filter.CompanyID {
			return false
		}
		if filter.ProjectID != "" && p.ProjectID != filter.ProjectID {
			return false
		}
		if filter.Status != "" && p.Status != filter.Status {
			return false
		}
		if filter.Search != "" && !containsFold(p.PONumber, filter.Search) && !containsFold(p.VendorID, filter.Search) {
			return false
		}
		return inRange(p.CreatedAt, filter.From, filter.To)
	})
	sortNewestFirst(out, func(p *models.PurchaseOrder) time.Time { return p.CreatedAt })
	return out, nil
}

func (s *PurchaseOrderStore) GetByID(_ context.Context, id string) (*models.PurchaseOrder, error) {
	p, ok := s.c.Get(id)
	if !ok {
		return nil, domain.NotFoundf("Purchase order")
	}
	return &p, nil
}

func (s *PurchaseOrderStore) CountForYear(_ context.Context, year int) (int, error) {
	prefix := fmt.Sprintf("PO-%d-", year)
	matches := s.c.List(func(p *models.PurchaseOrder) bool {
		return strings.HasPrefix(p.PONumber, prefix)
	})
	return len(matches), nil
}

func (s *PurchaseOrderStore) Create(_ context.Context, po *models.PurchaseOrder) error {
	s.c.Insert(*po)
	return nil
}

func (s *PurchaseOrderStore) Update(_ context.Context, po *models.PurchaseOrder) error {
	if !s.c.Replace(*po) {
		return domain.NotFoundf("Purchase order")
	}
	return nil
}

func (s *PurchaseOrderStore) Delete(_ context.Context, id string) error {
	if !s.c.Remove(id) {
		return domain.NotFoundf("Purchase order")
	}
	return nil
}
