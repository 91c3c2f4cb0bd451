package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"sitework/internal/config"
	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// MarketplaceService manages the installable-module catalog. The catalog is
// global, not company scoped; publishing and deletion require super admin.
type MarketplaceService struct {
	repo   repositories.MarketplaceRepository
	logger *slog.Logger
}

func NewMarketplaceService(repo repositories.MarketplaceRepository, logger *slog.Logger) *MarketplaceService {
	return &MarketplaceService{repo: repo, logger: logger}
}

// CreateModuleRequest is the POST /api/marketplace/modules body.
type CreateModuleRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Version     string  `json:"version"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Published   bool    `json:"published"`
}

func (r CreateModuleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, config.MaxNameLength)),
		validation.Field(&r.Category, validation.Required.Error("category is required")),
		validation.Field(&r.Price, validation.Min(0.0)),
	)
}

// UpdateModuleRequest carries partial-update fields.
type UpdateModuleRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Version     *string  `json:"version"`
	Author      *string  `json:"author"`
	Price       *float64 `json:"price"`
	Published   *bool    `json:"published"`
}

// List returns catalog entries. Non-admin callers only see published
// modules.
func (s *MarketplaceService) List(ctx context.Context, caller models.AuthContext, category string) ([]models.MarketplaceModule, error) {
	publishedOnly := !caller.IsSuperAdmin()
	return s.repo.List(ctx, category, publishedOnly)
}

func (s *MarketplaceService) Get(ctx context.Context, caller models.AuthContext, id string) (*models.MarketplaceModule, error) {
	mod, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mod.Published && !caller.IsSuperAdmin() {
		return nil, domain.NotFoundf("Module")
	}
	return mod, nil
}

func (s *MarketplaceService) Create(ctx context.Context, caller models.AuthContext, req *CreateModuleRequest) (*models.MarketplaceModule, error) {
	if !caller.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: only super admins can publish modules", domain.ErrForbidden)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	version := req.Version
	if version == "" {
		version = "1.0.0"
	}
	now := nowUTC()
	mod := &models.MarketplaceModule{
		ID:          "mod-" + uuid.NewString(),
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Version:     version,
		Author:      req.Author,
		Price:       req.Price,
		Published:   req.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, mod); err != nil {
		return nil, err
	}
	s.logger.Info("marketplace module created", "module_id", mod.ID, "slug", mod.Slug)
	return mod, nil
}

func (s *MarketplaceService) Update(ctx context.Context, caller models.AuthContext, id string, req *UpdateModuleRequest) (*models.MarketplaceModule, error) {
	if !caller.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: only super admins can modify modules", domain.ErrForbidden)
	}
	mod, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		mod.Name = *req.Name
		mod.Slug = slugify(*req.Name)
	}
	if req.Description != nil {
		mod.Description = *req.Description
	}
	if req.Category != nil {
		mod.Category = *req.Category
	}
	if req.Version != nil {
		mod.Version = *req.Version
	}
	if req.Author != nil {
		mod.Author = *req.Author
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domain.Validationf("price must not be negative")
		}
		mod.Price = *req.Price
	}
	if req.Published != nil {
		mod.Published = *req.Published
	}
	mod.UpdatedAt = nowUTC()
	if err := s.repo.Update(ctx, mod); err != nil {
		return nil, err
	}
	return mod, nil
}

func (s *MarketplaceService) Delete(ctx context.Context, caller models.AuthContext, id string) error {
	if !caller.IsSuperAdmin() {
		return fmt.Errorf("%w: only super admins can delete modules", domain.ErrForbidden)
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Install bumps the install counter for a published module.
func (s *MarketplaceService) Install(ctx context.Context, caller models.AuthContext, id string) (*models.MarketplaceModule, error) {
	mod, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mod.Published {
		return nil, domain.Validationf("module %q is not published", mod.Slug)
	}
	installed, err := s.repo.IncrementInstalls(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("marketplace module installed",
		"module_id", id, "user_id", caller.UserID, "installs", installed.Installs)
	return installed, nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
