// Package claims attaches typed key/value facts to accounts.
// Attachment is append-only; duplicate claim types are permitted.
package claims

import (
	"context"

	"github.com/dmitrijs2005/idprov/internal/server/models"
)

type Repository interface {
	// Attach appends the given claims to their accounts.
	Attach(ctx context.Context, claims []models.Claim) error

	// SelectByAccount returns all claims of the account in insertion order.
	SelectByAccount(ctx context.Context, accountID string) ([]models.Claim, error)
}
