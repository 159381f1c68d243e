package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/idprov/internal/dbx"
	"github.com/dmitrijs2005/idprov/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/idprov/internal/server/repositories/claims"
	"github.com/dmitrijs2005/idprov/internal/server/repositories/media"
	"github.com/dmitrijs2005/idprov/internal/server/repositories/roles"
)

// MemoryRepositoryManager vends the in-memory reference repositories. The
// DBTX argument is ignored; state lives in the repositories themselves.
// Intended for tests and local development.
type MemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
	media    *media.MemoryRepository
	claims   *claims.MemoryRepository
	roles    *roles.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	accountRepo := accounts.NewMemoryRepository()
	return &MemoryRepositoryManager{
		accounts: accountRepo,
		media:    media.NewMemoryRepository(accountRepo.OwnsMediaReference, accountRepo.DetachMediaReference),
		claims:   claims.NewMemoryRepository(),
		roles:    roles.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository { return m.accounts }

func (m *MemoryRepositoryManager) Media(db dbx.DBTX) media.Repository { return m.media }

func (m *MemoryRepositoryManager) Claims(db dbx.DBTX) claims.Repository { return m.claims }

func (m *MemoryRepositoryManager) Roles(db dbx.DBTX) roles.Repository { return m.roles }
