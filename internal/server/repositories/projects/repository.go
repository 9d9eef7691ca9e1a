// Package projects declares persistence for portfolio projects and their
// image path lists.
package projects

import (
	"context"

	"github.com/dmitrijs2005/buildpanel/internal/server/models"
)

// Repository defines project storage. Every method returns
// common.ErrorNotFound when the project id does not exist.
type Repository interface {
	// List returns projects newest first.
	List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) (*models.Project, error)

	// Update applies the non-nil fields of patch and bumps updated_at.
	Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)

	// AppendImages adds paths to the end of the image list in one statement.
	AppendImages(ctx context.Context, id string, paths []string) (*models.Project, error)

	// RemoveImage drops path from the image list. A path that is not
	// attached to the project yields common.ErrorNotFound.
	RemoveImage(ctx context.Context, id string, path string) (*models.Project, error)

	// Delete removes the project and returns the image paths it referenced.
	Delete(ctx context.Context, id string) ([]string, error)
}
