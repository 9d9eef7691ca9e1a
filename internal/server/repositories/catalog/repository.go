// Package catalog declares persistence for the public service catalogue.
package catalog

import (
	"context"

	"github.com/dmitrijs2005/buildpanel/internal/server/models"
)

// Repository defines service storage. Listings are ordered by ascending
// sort order; lookups of unknown ids return common.ErrorNotFound.
type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]*models.Service, error)
	Get(ctx context.Context, id string) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) (*models.Service, error)
	Update(ctx context.Context, id string, patch models.ServicePatch) (*models.Service, error)
	Delete(ctx context.Context, id string) error
}
