// Package blacklist declares the store of access tokens revoked on logout.
package blacklist

import (
	"context"
	"time"
)

type Repository interface {
	// Add revokes token. Adding an already revoked token is not an error.
	Add(ctx context.Context, token string, expiresAt time.Time) error

	// Exists reports whether token has been revoked.
	Exists(ctx context.Context, token string) (bool, error)

	// DeleteExpired drops entries whose token expired before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
