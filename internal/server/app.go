// Package server initializes and runs the provisioning server: it opens the
// database, runs migrations, seeds the initial roles and admin account, and
// keeps the orphan reconciler running until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/idprov/internal/logging"
	"github.com/dmitrijs2005/idprov/internal/server/config"
	"github.com/dmitrijs2005/idprov/internal/server/credentials"
	"github.com/dmitrijs2005/idprov/internal/server/mediastore"
	"github.com/dmitrijs2005/idprov/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/idprov/internal/server/services"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	manager      repomanager.RepositoryManager
	provisioning *services.ProvisioningService
	media        *services.MediaService
	reconciler   *services.ReconcilerService
	bootstrap    *services.BootstrapService
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()

	store := mediastore.NewS3Store(mediastore.S3Config{
		RootUser:     cfg.S3RootUser,
		RootPassword: cfg.S3RootPassword,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		Timeout:      cfg.S3Timeout,
	})

	hasher := credentials.NewBcryptHasher()

	return &App{
		config:       cfg,
		logger:       logger,
		db:           db,
		manager:      manager,
		provisioning: services.NewProvisioningService(db, manager, store, credentials.NewPolicy(), hasher, logger, cfg.DefaultRoleName),
		media:        services.NewMediaService(db, manager, store, logger),
		reconciler:   services.NewReconcilerService(db, manager, store, logger, cfg.OrphanGracePeriod),
		bootstrap:    services.NewBootstrapService(db, manager, hasher, logger),
	}, nil
}

// Provisioning exposes the registration workflow to embedding callers.
func (app *App) Provisioning() *services.ProvisioningService { return app.provisioning }

// Media exposes the cascading media deletion to embedding callers.
func (app *App) Media() *services.MediaService { return app.media }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.manager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	admin := services.AdminSeed{
		Name:     app.config.AdminName,
		Login:    app.config.AdminLogin,
		Password: app.config.AdminPassword,
	}
	if err := app.bootstrap.Run(ctx, admin); err != nil {
		return fmt.Errorf("bootstrap error: %w", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.reconciler.Run(ctx, app.config.ReconcileInterval)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing database", "error", err.Error())
	}

	return nil
}
