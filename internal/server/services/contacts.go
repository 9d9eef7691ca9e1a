package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/buildpanel/internal/logging"
	"github.com/dmitrijs2005/buildpanel/internal/server/models"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/repomanager"
)

// ContactInput is what the public contact form submits. Read state and
// status are never taken from the client.
type ContactInput struct {
	FullName string `json:"fullName" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=50"`
	Subject  string `json:"subject" validate:"required,max=200"`
	Message  string `json:"message" validate:"required,max=5000"`
}

type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=new inProgress completed"`
}

// ContactService handles contact-form submissions and their triage.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ContactService {
	return &ContactService{db: db, repomanager: m, logger: logger}
}

// Submit stores a new message as unread with status "new".
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.Contact, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	c, err := s.repomanager.Contacts(s.db).Create(ctx, &models.Contact{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Subject:  in.Subject,
		Message:  in.Message,
		IsRead:   false,
		Status:   models.ContactStatusNew,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "contact message received", "contact_id", c.ID)
	return c, nil
}

func (s *ContactService) List(ctx context.Context, filter models.ContactFilter) ([]*models.Contact, error) {
	if filter.Status != "" {
		if err := Validate(StatusInput{Status: filter.Status}); err != nil {
			return nil, err
		}
	}
	return s.repomanager.Contacts(s.db).List(ctx, filter)
}

func (s *ContactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Contacts(s.db).Get(ctx, id)
}

func (s *ContactService) UnreadCount(ctx context.Context) (int64, error) {
	return s.repomanager.Contacts(s.db).CountUnread(ctx)
}

func (s *ContactService) MarkAsRead(ctx context.Context, id string) (*models.Contact, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Contacts(s.db).MarkAsRead(ctx, id)
}

// UpdateStatus changes the triage status; the read flag is left as is.
func (s *ContactService) UpdateStatus(ctx context.Context, id string, in StatusInput) (*models.Contact, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := Validate(in); err != nil {
		return nil, err
	}
	return s.repomanager.Contacts(s.db).UpdateStatus(ctx, id, in.Status)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repomanager.Contacts(s.db).Delete(ctx, id)
}
