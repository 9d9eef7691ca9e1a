// Package admins declares the credential store for back-office users.
package admins

import (
	"context"
	"time"

	"github.com/dmitrijs2005/buildpanel/internal/server/models"
)

// Repository defines lookups and mutations on admin records.
type Repository interface {
	// Create inserts a new admin and returns it with the generated id.
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)

	// GetByUsername returns common.ErrorNotFound when no admin matches.
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)

	GetByID(ctx context.Context, id string) (*models.Admin, error)

	// UpdateLastLogin stamps the admin's last successful login.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
