// Package accounts persists provisioned identities and enforces the
// login/email uniqueness invariant.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/idprov/internal/server/models"
)

type Repository interface {
	// Create inserts the account and returns it with its assigned ID.
	// A conflicting login yields common.ErrorLoginAlreadyExists.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByLogin returns the account with the given login or
	// common.ErrorNotFound.
	GetByLogin(ctx context.Context, login string) (*models.Account, error)
}
