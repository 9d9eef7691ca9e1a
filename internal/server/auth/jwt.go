// Package auth issues and verifies the HS256 access tokens handed to admins.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/buildpanel/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the standard registered claims only: Subject is the admin
// id and ID (jti) makes every issued token distinct, so two logins in the
// same second never share a blacklist entry.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs a token for adminID valid for validityDuration.
func GenerateToken(adminID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the admin id and the
// token expiry. Expired tokens yield common.ErrTokenExpired, anything else
// that fails verification yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (string, time.Time, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", time.Time{}, common.ErrTokenExpired
		}
		return "", time.Time{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", time.Time{}, common.ErrInvalidToken
	}

	return claims.Subject, claims.ExpiresAt.Time, nil
}

// GetAdminIDFromToken is ParseToken without the expiry.
func GetAdminIDFromToken(tokenString string, secretKey []byte) (string, error) {
	id, _, err := ParseToken(tokenString, secretKey)
	return id, err
}

// ExpiresAt reads the exp claim without verifying the signature. It is used
// on logout where the token has already been authenticated.
func ExpiresAt(tokenString string) (time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, common.ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, common.ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}
