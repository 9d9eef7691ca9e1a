package models

import "time"

const (
	ProjectStatusInProgress = "in-progress"
	ProjectStatusCompleted  = "completed"
)

// Project is a portfolio entry. Images holds public upload paths such as
// /uploads/projects/<file>, in upload order.
type Project struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	Status         string     `json:"status"`
	Images         []string   `json:"images"`
	Features       []string   `json:"features"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ProjectPatch lists the fields changed by an update; nil means unchanged.
// ClearCompletionDate resets the date to null.
type ProjectPatch struct {
	Title               *string
	Description         *string
	Location            *string
	Status              *string
	Features            *[]string
	CompletionDate      *time.Time
	ClearCompletionDate bool
}

// ProjectFilter narrows a project listing. Empty Status matches all.
type ProjectFilter struct {
	Status string
}
