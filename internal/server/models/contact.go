package models

import "time"

const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "inProgress"
	ContactStatusCompleted  = "completed"
)

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactFilter narrows a contact listing; nil or empty fields match all.
type ContactFilter struct {
	Status string
	IsRead *bool
}
