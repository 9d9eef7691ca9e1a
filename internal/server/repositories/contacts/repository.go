// Package contacts declares persistence for contact-form submissions.
package contacts

import (
	"context"

	"github.com/dmitrijs2005/buildpanel/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)

	// List returns submissions newest first.
	List(ctx context.Context, filter models.ContactFilter) ([]*models.Contact, error)
	Get(ctx context.Context, id string) (*models.Contact, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, id string) (*models.Contact, error)
	UpdateStatus(ctx context.Context, id string, status string) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
}
