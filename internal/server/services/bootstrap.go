package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/idprov/internal/common"
	"github.com/dmitrijs2005/idprov/internal/dbx"
	"github.com/dmitrijs2005/idprov/internal/logging"
	"github.com/dmitrijs2005/idprov/internal/server/credentials"
	"github.com/dmitrijs2005/idprov/internal/server/models"
	"github.com/dmitrijs2005/idprov/internal/server/repositories/repomanager"
)

// AdminSeed describes the administrative account created at bootstrap.
type AdminSeed struct {
	Name     string
	Login    string
	Password string
}

// BootstrapService seeds the known-good initial state: the Admin and User
// roles and the administrative account with its Name claim. Run is
// idempotent and guarded by existence checks, so it is safe to invoke at
// every process start.
type BootstrapService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      credentials.Hasher
	logger      logging.Logger
}

func NewBootstrapService(db *sql.DB, m repomanager.RepositoryManager, hasher credentials.Hasher, logger logging.Logger) *BootstrapService {
	return &BootstrapService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		logger:      logger.With("module", "bootstrap"),
	}
}

// Run ensures the role definitions and the administrative account exist.
func (s *BootstrapService) Run(ctx context.Context, admin AdminSeed) error {
	if err := s.ensureRoles(ctx); err != nil {
		return fmt.Errorf("error seeding roles: %w", err)
	}
	if err := s.ensureAdmin(ctx, admin); err != nil {
		return fmt.Errorf("error seeding admin account: %w", err)
	}
	return nil
}

func (s *BootstrapService) ensureRoles(ctx context.Context) error {
	repo := s.repomanager.Roles(s.db)

	for _, name := range []string{models.RoleAdmin, models.RoleUser} {
		_, err := repo.FindByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if _, err := repo.Create(ctx, &models.Role{Name: name}); err != nil {
			return err
		}
		s.logger.Info(ctx, "seeded role", "role", name)
	}

	return nil
}

func (s *BootstrapService) ensureAdmin(ctx context.Context, admin AdminSeed) error {

	_, err := s.repomanager.Accounts(s.db).GetByLogin(ctx, admin.Login)
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	hash, err := s.hasher.Hash(admin.Password)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		account := &models.Account{
			Name:         models.NormalizeName(admin.Name),
			Login:        admin.Login,
			PasswordHash: hash,
			Status:       models.StatusActive,
		}
		account, err := s.repomanager.Accounts(tx).Create(ctx, account)
		if err != nil {
			return err
		}

		claims := []models.Claim{{AccountID: account.ID, Type: models.ClaimTypeName, Value: account.Name}}
		if err := s.repomanager.Claims(tx).Attach(ctx, claims); err != nil {
			return err
		}

		roleRepo := s.repomanager.Roles(tx)
		role, err := roleRepo.FindByName(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		if err := roleRepo.Assign(ctx, account.ID, role.ID); err != nil {
			return err
		}

		s.logger.Info(ctx, "seeded admin account", "login", admin.Login)
		return nil
	})
}
