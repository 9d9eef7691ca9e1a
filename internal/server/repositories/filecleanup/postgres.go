package filecleanup

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/buildpanel/internal/dbx"
)

// PostgresRepository implements the cleanup queue over a dbx.DBTX. Bind it
// to a *sql.Tx to enqueue atomically with the row that owned the files.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Enqueue(ctx context.Context, keys []string) error {
	query := `
		INSERT INTO pending_file_deletions (storage_key)
		VALUES ($1)
		ON CONFLICT (storage_key) DO NOTHING
	`
	for _, k := range keys {
		if _, err := r.db.ExecContext(ctx, query, k); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Pending(ctx context.Context, limit int) ([]string, error) {
	query := `SELECT storage_key FROM pending_file_deletions ORDER BY created_at ASC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending deletions: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		result = append(result, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Done(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_file_deletions WHERE storage_key = $1`, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
