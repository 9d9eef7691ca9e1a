package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/buildpanel/internal/common"
	"github.com/dmitrijs2005/buildpanel/internal/dbx"
	"github.com/dmitrijs2005/buildpanel/internal/server/models"
)

const serviceColumns = `id, title, description, icon, sort_order, is_active, created_at, updated_at`

// PostgresRepository implements service storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanService(s rowScanner) (*models.Service, error) {
	var item models.Service
	if err := s.Scan(&item.ID, &item.Title, &item.Description, &item.Icon,
		&item.Order, &item.IsActive, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Service, error) {
	item, err := scanService(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// List returns services by ascending sort order; ties keep creation order.
func (r *PostgresRepository) List(ctx context.Context, activeOnly bool) ([]*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services
		WHERE (NOT $1 OR is_active)
		ORDER BY sort_order ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to select services: %w", err)
	}
	defer rows.Close()

	result := []*models.Service{}
	for rows.Next() {
		item, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Service, error) {
	return r.queryOne(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
}

func (r *PostgresRepository) Create(ctx context.Context, service *models.Service) (*models.Service, error) {
	query := `
		INSERT INTO services (title, description, icon, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + serviceColumns

	return r.queryOne(ctx, query,
		service.Title, service.Description, service.Icon, service.Order, service.IsActive)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.ServicePatch) (*models.Service, error) {
	var order, active any
	if patch.Order != nil {
		order = *patch.Order
	}
	if patch.IsActive != nil {
		active = *patch.IsActive
	}

	query := `
		UPDATE services SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			icon = COALESCE($4, icon),
			sort_order = COALESCE($5, sort_order),
			is_active = COALESCE($6, is_active),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + serviceColumns

	return r.queryOne(ctx, query, id,
		stringOrNil(patch.Title), stringOrNil(patch.Description), stringOrNil(patch.Icon), order, active)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
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

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
