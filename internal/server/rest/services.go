package rest

import (
	"context"

	"github.com/dmitrijs2005/buildpanel/internal/server/models"
	"github.com/dmitrijs2005/buildpanel/internal/server/services"
	"github.com/dmitrijs2005/buildpanel/internal/storage"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *models.Admin, error)
	Me(ctx context.Context, adminID string) (*models.Admin, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (string, error)
}

type ProjectService interface {
	List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, in services.CreateProjectInput) (*models.Project, error)
	Update(ctx context.Context, id string, in services.UpdateProjectInput) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	UploadImages(ctx context.Context, id string, files []storage.File) (*models.Project, error)
	RemoveImage(ctx context.Context, id string, imagePath string) (*models.Project, error)
}

type CatalogService interface {
	ListActive(ctx context.Context) ([]*models.Service, error)
	ListAll(ctx context.Context) ([]*models.Service, error)
	Get(ctx context.Context, id string) (*models.Service, error)
	Create(ctx context.Context, in services.CreateServiceInput) (*models.Service, error)
	Update(ctx context.Context, id string, in services.UpdateServiceInput) (*models.Service, error)
	Delete(ctx context.Context, id string) error
}

type ContactService interface {
	Submit(ctx context.Context, in services.ContactInput) (*models.Contact, error)
	List(ctx context.Context, filter models.ContactFilter) ([]*models.Contact, error)
	Get(ctx context.Context, id string) (*models.Contact, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, id string) (*models.Contact, error)
	UpdateStatus(ctx context.Context, id string, in services.StatusInput) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ AuthService    = (*services.AuthService)(nil)
	_ ProjectService = (*services.ProjectService)(nil)
	_ CatalogService = (*services.CatalogService)(nil)
	_ ContactService = (*services.ContactService)(nil)
)
