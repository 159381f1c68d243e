// Package roles looks up seeded role definitions and associates them with
// accounts. Roles are never created by the provisioning workflow itself.
package roles

import (
	"context"

	"github.com/dmitrijs2005/idprov/internal/server/models"
)

type Repository interface {
	// FindByName returns the role with the given name or common.ErrorNotFound.
	FindByName(ctx context.Context, name string) (*models.Role, error)

	// Create inserts a role definition. Used only by bootstrap seeding.
	Create(ctx context.Context, role *models.Role) (*models.Role, error)

	// Assign associates the role with the account.
	Assign(ctx context.Context, accountID, roleID string) error

	// SelectByAccount returns the names of roles assigned to the account.
	SelectByAccount(ctx context.Context, accountID string) ([]string, error)
}
