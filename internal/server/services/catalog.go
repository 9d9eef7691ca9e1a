package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/buildpanel/internal/server/models"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/repomanager"
)

type CreateServiceInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Icon        string `json:"icon" validate:"max=100"`
	Order       *int   `json:"order"`
	IsActive    *bool  `json:"isActive"`
}

type UpdateServiceInput struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,min=1"`
	Icon        *string `json:"icon" validate:"omitnil,min=1,max=100"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}

// CatalogService manages the list of services the company offers.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

// ListActive returns the public listing: active services by ascending order.
func (s *CatalogService) ListActive(ctx context.Context) ([]*models.Service, error) {
	return s.repomanager.Services(s.db).List(ctx, true)
}

// ListAll includes inactive services.
func (s *CatalogService) ListAll(ctx context.Context) ([]*models.Service, error) {
	return s.repomanager.Services(s.db).List(ctx, false)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Service, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Services(s.db).Get(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, in CreateServiceInput) (*models.Service, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	svc := &models.Service{
		Title:       in.Title,
		Description: in.Description,
		Icon:        in.Icon,
		IsActive:    true,
	}
	if svc.Icon == "" {
		svc.Icon = models.DefaultServiceIcon
	}
	if in.Order != nil {
		svc.Order = *in.Order
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}

	return s.repomanager.Services(s.db).Create(ctx, svc)
}

func (s *CatalogService) Update(ctx context.Context, id string, in UpdateServiceInput) (*models.Service, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := Validate(in); err != nil {
		return nil, err
	}

	return s.repomanager.Services(s.db).Update(ctx, id, models.ServicePatch{
		Title:       in.Title,
		Description: in.Description,
		Icon:        in.Icon,
		Order:       in.Order,
		IsActive:    in.IsActive,
	})
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repomanager.Services(s.db).Delete(ctx, id)
}
