// Package media persists media references and the cleanup backlog that
// tracks remote objects whose deletion must be retried.
package media

import (
	"context"
	"time"

	"github.com/dmitrijs2005/idprov/internal/server/models"
)

type Repository interface {
	// Create inserts the media reference and returns it with its assigned ID.
	Create(ctx context.Context, ref *models.MediaReference) (*models.MediaReference, error)

	// Get returns the media reference with the given ID or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.MediaReference, error)

	// Delete removes the local record. Remote cleanup is the caller's concern.
	Delete(ctx context.Context, id string) error

	// SelectOrphans returns references created before cutoff that no account owns.
	SelectOrphans(ctx context.Context, cutoff time.Time) ([]*models.MediaReference, error)

	// EnqueueCleanup records a remote object whose deletion failed.
	EnqueueCleanup(ctx context.Context, task *models.CleanupTask) error

	// SelectCleanupBacklog returns up to limit pending cleanup tasks.
	SelectCleanupBacklog(ctx context.Context, limit int) ([]*models.CleanupTask, error)

	// DequeueCleanup removes a completed cleanup task.
	DequeueCleanup(ctx context.Context, remotePublicID string) error
}
