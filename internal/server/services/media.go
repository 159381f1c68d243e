package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/idprov/internal/dbx"
	"github.com/dmitrijs2005/idprov/internal/logging"
	"github.com/dmitrijs2005/idprov/internal/server/mediastore"
	"github.com/dmitrijs2005/idprov/internal/server/models"
	"github.com/dmitrijs2005/idprov/internal/server/repositories/repomanager"
)

// MediaService owns deletion of media references. Every deletion of a
// MediaReference must go through DeleteReference so the remote object is
// cleaned up as well; there is deliberately no other code path that removes
// these rows.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       mediastore.Store
	logger      logging.Logger
}

func NewMediaService(db *sql.DB, m repomanager.RepositoryManager, store mediastore.Store, logger logging.Logger) *MediaService {
	return &MediaService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "media"),
	}
}

// DeleteReference deletes a media reference and cascades the deletion to the
// remote object. When the remote identifier is empty no remote call is made.
//
// Remote-store unavailability does not block the local delete: on remote
// failure the leak is recorded in the cleanup backlog (inside the same local
// transaction as the delete) and retried by the reconciler. Conversely, when
// the local transaction fails after the remote object is already deleted,
// the dangling reference is recorded in the backlog so it is never lost.
func (s *MediaService) DeleteReference(ctx context.Context, id string) error {

	ref, err := s.repomanager.Media(s.db).Get(ctx, id)
	if err != nil {
		return fmt.Errorf("error loading media reference: %w", err)
	}

	remoteFailed := false
	remoteDeleted := false
	if ref.RemotePublicID != "" {
		if err := s.store.Delete(ctx, ref.RemotePublicID); err != nil {
			remoteFailed = true
			s.logger.Error(ctx, "remote media delete failed, queueing for reconciliation",
				"media_public_id", ref.RemotePublicID, "url", ref.URL, "error", err.Error())
		} else {
			remoteDeleted = true
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Media(tx)
		if remoteFailed {
			task := &models.CleanupTask{RemotePublicID: ref.RemotePublicID, URL: ref.URL}
			if err := repo.EnqueueCleanup(ctx, task); err != nil {
				return fmt.Errorf("error queueing remote cleanup: %w", err)
			}
		}
		if err := repo.Delete(ctx, ref.ID); err != nil {
			return fmt.Errorf("error deleting media reference: %w", err)
		}
		return nil
	})
	if err != nil && remoteDeleted {
		// the remote object is already gone but the reference row survived
		// the rollback; record it so the dangling reference stays visible
		// until the delete is retried
		task := &models.CleanupTask{RemotePublicID: ref.RemotePublicID, URL: ref.URL}
		if qErr := s.repomanager.Media(s.db).EnqueueCleanup(ctx, task); qErr != nil {
			s.logger.Error(ctx, "failed to record dangling media reference",
				"media_public_id", ref.RemotePublicID, "error", qErr.Error())
		}
	}
	return err
}
