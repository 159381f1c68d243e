package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/idprov/internal/common"
	"github.com/dmitrijs2005/idprov/internal/logging"
	"github.com/dmitrijs2005/idprov/internal/server/mediastore"
	"github.com/dmitrijs2005/idprov/internal/server/repositories/repomanager"
)

const cleanupBatchSize = 100

// ReconcilerService is the out-of-band sweep that bounds the blast radius of
// partial registration failures: it deletes remote objects for media
// references no account owns (after a grace period) and retries remote
// deletions that failed during the cascade.
type ReconcilerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       mediastore.Store
	logger      logging.Logger
	gracePeriod time.Duration
}

func NewReconcilerService(db *sql.DB, m repomanager.RepositoryManager, store mediastore.Store,
	logger logging.Logger, gracePeriod time.Duration) *ReconcilerService {
	return &ReconcilerService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "reconciler"),
		gracePeriod: gracePeriod,
	}
}

// Run sweeps on every tick until the context is cancelled.
func (s *ReconcilerService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping reconciler...")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error(ctx, "reconciliation sweep failed", "error", err.Error())
			}
		}
	}
}

// Sweep runs one reconciliation pass. Individual remote failures are logged
// and retried on the next pass; they do not abort the sweep.
func (s *ReconcilerService) Sweep(ctx context.Context) error {
	if err := s.sweepOrphans(ctx); err != nil {
		return err
	}
	return s.drainBacklog(ctx)
}

func (s *ReconcilerService) sweepOrphans(ctx context.Context) error {
	repo := s.repomanager.Media(s.db)

	cutoff := time.Now().Add(-s.gracePeriod)
	orphans, err := repo.SelectOrphans(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, ref := range orphans {
		if ref.RemotePublicID != "" {
			if err := s.store.Delete(ctx, ref.RemotePublicID); err != nil && !errors.Is(err, common.ErrorNotFound) {
				s.logger.Warn(ctx, "orphan remote delete failed, will retry",
					"media_public_id", ref.RemotePublicID, "error", err.Error())
				continue
			}
		}
		if err := repo.Delete(ctx, ref.ID); err != nil {
			return err
		}
		s.logger.Info(ctx, "reclaimed orphaned media reference",
			"media_id", ref.ID, "media_public_id", ref.RemotePublicID)
	}

	return nil
}

func (s *ReconcilerService) drainBacklog(ctx context.Context) error {
	repo := s.repomanager.Media(s.db)

	tasks, err := repo.SelectCleanupBacklog(ctx, cleanupBatchSize)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		// a missing remote object means a previous attempt succeeded
		if err := s.store.Delete(ctx, task.RemotePublicID); err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "backlog remote delete failed, will retry",
				"media_public_id", task.RemotePublicID, "error", err.Error())
			continue
		}
		if err := repo.DequeueCleanup(ctx, task.RemotePublicID); err != nil {
			return err
		}
		s.logger.Info(ctx, "reclaimed leaked remote object", "media_public_id", task.RemotePublicID)
	}

	return nil
}
