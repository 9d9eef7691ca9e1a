package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/buildpanel/internal/common"
	"github.com/dmitrijs2005/buildpanel/internal/dbx"
	"github.com/dmitrijs2005/buildpanel/internal/server/models"
)

const projectColumns = `id, title, description, location, status, images, features, completion_date, created_at, updated_at`

// PostgresRepository implements project storage over a dbx.DBTX (*sql.DB or *sql.Tx).
// images and features are JSONB arrays of strings.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (*models.Project, error) {
	var (
		p          models.Project
		images     []byte
		features   []byte
		completion sql.NullTime
	)

	if err := s.Scan(&p.ID, &p.Title, &p.Description, &p.Location, &p.Status,
		&images, &features, &completion, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if p.Images, err = decodeList(images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	if p.Features, err = decodeList(features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	if completion.Valid {
		p.CompletionDate = &completion.Time
	}

	return &p, nil
}

func decodeList(b []byte) ([]string, error) {
	out := []string{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()

	result := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	images, err := encodeList(project.Images)
	if err != nil {
		return nil, err
	}
	features, err := encodeList(project.Features)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO projects (title, description, location, status, images, features, completion_date)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7)
		RETURNING ` + projectColumns

	return r.queryOne(ctx, query,
		project.Title, project.Description, project.Location, project.Status,
		images, features, timeOrNil(project.CompletionDate))
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	var features any
	if patch.Features != nil {
		s, err := encodeList(*patch.Features)
		if err != nil {
			return nil, err
		}
		features = s
	}

	query := `
		UPDATE projects SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			location = COALESCE($4, location),
			status = COALESCE($5, status),
			features = COALESCE($6::jsonb, features),
			completion_date = CASE WHEN $8::boolean THEN NULL ELSE COALESCE($7, completion_date) END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + projectColumns

	return r.queryOne(ctx, query, id,
		stringOrNil(patch.Title), stringOrNil(patch.Description), stringOrNil(patch.Location),
		stringOrNil(patch.Status), features, timeOrNil(patch.CompletionDate), patch.ClearCompletionDate)
}

func (r *PostgresRepository) AppendImages(ctx context.Context, id string, paths []string) (*models.Project, error) {
	images, err := encodeList(paths)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE projects SET images = images || $2::jsonb, updated_at = now()
		WHERE id = $1
		RETURNING ` + projectColumns

	return r.queryOne(ctx, query, id, images)
}

func (r *PostgresRepository) RemoveImage(ctx context.Context, id string, path string) (*models.Project, error) {
	query := `
		UPDATE projects SET images = images - $2::text, updated_at = now()
		WHERE id = $1 AND images @> jsonb_build_array($2::text)
		RETURNING ` + projectColumns

	return r.queryOne(ctx, query, id, path)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) ([]string, error) {
	query := `DELETE FROM projects WHERE id = $1 RETURNING images`

	var images []byte
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&images); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	paths, err := decodeList(images)
	if err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	return paths, nil
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
