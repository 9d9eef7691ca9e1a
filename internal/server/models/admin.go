// Package models defines server-side data models persisted in the database
// and returned by the REST API.
package models

import "time"

// Admin is a back-office user. PasswordHash is a bcrypt hash and never
// leaves the server.
type Admin struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"fullName"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// BlacklistedToken is an access token revoked before its natural expiry.
type BlacklistedToken struct {
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
