package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/buildpanel/internal/common"
	"github.com/dmitrijs2005/buildpanel/internal/dbx"
	"github.com/dmitrijs2005/buildpanel/internal/server/models"
)

const contactColumns = `id, full_name, email, phone, subject, message, is_read, status, created_at, updated_at`

// PostgresRepository implements contact storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(s rowScanner) (*models.Contact, error) {
	var c models.Contact
	if err := s.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Subject, &c.Message,
		&c.IsRead, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (full_name, email, phone, subject, message, is_read, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + contactColumns

	return r.queryOne(ctx, query, contact.FullName, contact.Email, contact.Phone,
		contact.Subject, contact.Message, contact.IsRead, contact.Status)
}

func (r *PostgresRepository) List(ctx context.Context, filter models.ContactFilter) ([]*models.Contact, error) {
	var isRead sql.NullBool
	if filter.IsRead != nil {
		isRead = sql.NullBool{Bool: *filter.IsRead, Valid: true}
	}

	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE ($1 = '' OR status = $1) AND ($2::boolean IS NULL OR is_read = $2)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, filter.Status, isRead)
	if err != nil {
		return nil, fmt.Errorf("failed to select contacts: %w", err)
	}
	defer rows.Close()

	result := []*models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Contact, error) {
	return r.queryOne(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
}

func (r *PostgresRepository) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE NOT is_read`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) MarkAsRead(ctx context.Context, id string) (*models.Contact, error) {
	query := `
		UPDATE contacts SET is_read = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING ` + contactColumns

	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status string) (*models.Contact, error) {
	query := `
		UPDATE contacts SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + contactColumns

	return r.queryOne(ctx, query, id, status)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
