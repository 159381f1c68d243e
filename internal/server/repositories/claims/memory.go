package claims

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/idprov/internal/server/models"
)

// MemoryRepository is an in-memory reference implementation of Repository.
type MemoryRepository struct {
	mu     sync.Mutex
	claims []models.Claim
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Attach(ctx context.Context, claims []models.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.claims = append(r.claims, claims...)
	return nil
}

func (r *MemoryRepository) SelectByAccount(ctx context.Context, accountID string) ([]models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []models.Claim
	for _, c := range r.claims {
		if c.AccountID == accountID {
			result = append(result, c)
		}
	}
	return result, nil
}
