package models

import "time"

// DefaultServiceIcon is used when a service is created without an icon.
const DefaultServiceIcon = "fa-building"

// Service is an entry of the public service catalogue.
type Service struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ServicePatch struct {
	Title       *string
	Description *string
	Icon        *string
	Order       *int
	IsActive    *bool
}
