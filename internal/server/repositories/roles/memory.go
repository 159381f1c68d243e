package roles

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/idprov/internal/common"
	"github.com/dmitrijs2005/idprov/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository is an in-memory reference implementation of Repository.
type MemoryRepository struct {
	mu          sync.Mutex
	byName      map[string]*models.Role
	assignments map[string][]string // account id -> role ids
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byName:      make(map[string]*models.Role),
		assignments: make(map[string][]string),
	}
}

func (r *MemoryRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	result := *role
	return &result, nil
}

func (r *MemoryRepository) Create(ctx context.Context, role *models.Role) (*models.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[role.Name]; ok {
		result := *existing
		return &result, nil
	}

	stored := *role
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.byName[stored.Name] = &stored

	result := stored
	return &result, nil
}

func (r *MemoryRepository) Assign(ctx context.Context, accountID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.assignments[accountID] {
		if id == roleID {
			return nil
		}
	}
	r.assignments[accountID] = append(r.assignments[accountID], roleID)
	return nil
}

func (r *MemoryRepository) SelectByAccount(ctx context.Context, accountID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for _, roleID := range r.assignments[accountID] {
		for _, role := range r.byName {
			if role.ID == roleID {
				names = append(names, role.Name)
			}
		}
	}
	return names, nil
}
