package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/idprov/internal/common"
	"github.com/dmitrijs2005/idprov/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository is an in-memory reference implementation of Repository.
// Uniqueness checks happen under a single mutex, so concurrent Create calls
// with the same login cannot both succeed.
type MemoryRepository struct {
	mu       sync.Mutex
	byLogin  map[string]*models.Account
	accounts map[string]*models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byLogin:  make(map[string]*models.Account),
		accounts: make(map[string]*models.Account),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byLogin[account.Login]; exists {
		return nil, common.ErrorLoginAlreadyExists
	}

	stored := *account
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.CreatedAt = time.Now()

	r.byLogin[stored.Login] = &stored
	r.accounts[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *MemoryRepository) GetByLogin(ctx context.Context, login string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byLogin[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	result := *account
	return &result, nil
}

// OwnsMediaReference reports whether any account references the given
// media reference. Used by the in-memory media repository to detect orphans.
func (r *MemoryRepository) OwnsMediaReference(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.MediaReferenceID == id {
			return true
		}
	}
	return false
}

// DetachMediaReference clears the given media reference from any account
// holding it, mirroring the ON DELETE SET NULL behavior of the schema.
func (r *MemoryRepository) DetachMediaReference(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.MediaReferenceID == id {
			a.MediaReferenceID = ""
		}
	}
}

// Count returns the number of stored accounts.
func (r *MemoryRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}
