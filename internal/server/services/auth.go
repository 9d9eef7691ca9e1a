// Package services contains server-side business logic. This file implements
// AuthService: admin login, logout through the token blacklist and bearer
// token authentication.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/buildpanel/internal/common"
	"github.com/dmitrijs2005/buildpanel/internal/logging"
	"github.com/dmitrijs2005/buildpanel/internal/server/auth"
	"github.com/dmitrijs2005/buildpanel/internal/server/config"
	"github.com/dmitrijs2005/buildpanel/internal/server/models"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AuthService provides authentication-related operations:
// - Login: verify credentials and mint an access token
// - Logout: revoke a token before its natural expiry
// - Authenticate: validate a bearer token
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	now           func() time.Time
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		logger:        logger,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		now:           time.Now,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy spends the same bcrypt work for unknown usernames as for
// known ones.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login verifies credentials and returns a signed token and the admin.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.Admin, error) {
	repo := s.repomanager.Admins(s.db)

	admin, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			compareDummy(password)
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("error loading admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(admin.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", nil, fmt.Errorf("error signing token: %w", err)
	}

	now := s.now()
	if err := repo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return "", nil, fmt.Errorf("error updating last login: %w", err)
	}
	admin.LastLogin = &now

	s.logger.Info(ctx, "admin logged in", "admin_id", admin.ID)
	return token, admin, nil
}

// Me returns the admin behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, adminID string) (*models.Admin, error) {
	if err := checkID(adminID); err != nil {
		return nil, err
	}
	return s.repomanager.Admins(s.db).GetByID(ctx, adminID)
}

// Logout blacklists token until its own expiry and prunes entries whose
// tokens have expired meanwhile. The token must already be authenticated.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	exp, err := auth.ExpiresAt(token)
	if err != nil {
		return common.ErrorUnauthorized
	}

	repo := s.repomanager.Blacklist(s.db)
	if err := repo.Add(ctx, token, exp); err != nil {
		return fmt.Errorf("error blacklisting token: %w", err)
	}

	if n, err := repo.DeleteExpired(ctx, s.now()); err != nil {
		s.logger.Warn(ctx, "blacklist prune failed", "error", err)
	} else if n > 0 {
		s.logger.Debug(ctx, "blacklist pruned", "removed", n)
	}

	return nil
}

// Authenticate returns the admin id carried by token. The blacklist is
// consulted before the signature so revoked tokens fail fast. Every
// rejection wraps common.ErrorUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: missing token", common.ErrorUnauthorized)
	}

	revoked, err := s.repomanager.Blacklist(s.db).Exists(ctx, token)
	if err != nil {
		return "", fmt.Errorf("error checking blacklist: %w", err)
	}
	if revoked {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrTokenRevoked)
	}

	adminID, err := auth.GetAdminIDFromToken(token, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	return adminID, nil
}

// EnsureAdmin creates the admin if username is free. It reports false when
// an admin with that username already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, fullName string) (*models.Admin, bool, error) {
	if username == "" || password == "" {
		return nil, false, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Admins(s.db)

	existing, err := repo.GetByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("error hashing password: %w", err)
	}

	admin, err := repo.Create(ctx, &models.Admin{Username: username, PasswordHash: string(hash), FullName: fullName})
	if err != nil {
		return nil, false, err
	}
	return admin, true, nil
}
