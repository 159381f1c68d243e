package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/idprov/internal/common"
	"github.com/dmitrijs2005/idprov/internal/dbx"
	"github.com/dmitrijs2005/idprov/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, ref *models.MediaReference) (*models.MediaReference, error) {

	if ref.ID == "" {
		ref.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO media_references (id, url, remote_public_id)
		 VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, ref.ID, ref.URL, ref.RemotePublicID).Scan(&ref.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ref, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.MediaReference, error) {
	query :=
		`SELECT id, url, remote_public_id, created_at FROM media_references
		 WHERE id = $1
		 `

	ref := &models.MediaReference{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ref.ID, &ref.URL, &ref.RemotePublicID, &ref.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ref, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM media_references WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SelectOrphans(ctx context.Context, cutoff time.Time) ([]*models.MediaReference, error) {
	query :=
		`SELECT m.id, m.url, m.remote_public_id, m.created_at
		 FROM media_references m
		 WHERE m.created_at < $1
		   AND NOT EXISTS (SELECT 1 FROM accounts a WHERE a.media_reference_id = m.id)
		 `

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var refs []*models.MediaReference
	for rows.Next() {
		ref := &models.MediaReference{}
		if err := rows.Scan(&ref.ID, &ref.URL, &ref.RemotePublicID, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return refs, nil
}

func (r *PostgresRepository) EnqueueCleanup(ctx context.Context, task *models.CleanupTask) error {
	query :=
		`INSERT INTO media_cleanup_backlog (remote_public_id, url)
		 VALUES ($1, $2)
		 ON CONFLICT (remote_public_id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, task.RemotePublicID, task.URL); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SelectCleanupBacklog(ctx context.Context, limit int) ([]*models.CleanupTask, error) {
	query :=
		`SELECT remote_public_id, url, recorded_at FROM media_cleanup_backlog
		 ORDER BY recorded_at
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var tasks []*models.CleanupTask
	for rows.Next() {
		task := &models.CleanupTask{}
		if err := rows.Scan(&task.RemotePublicID, &task.URL, &task.RecordedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tasks, nil
}

func (r *PostgresRepository) DequeueCleanup(ctx context.Context, remotePublicID string) error {
	query := `DELETE FROM media_cleanup_backlog WHERE remote_public_id = $1`

	if _, err := r.db.ExecContext(ctx, query, remotePublicID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
