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

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Media(db dbx.DBTX) media.Repository
	Claims(db dbx.DBTX) claims.Repository
	Roles(db dbx.DBTX) roles.Repository
}
