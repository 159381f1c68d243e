package media

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/idprov/internal/common"
	"github.com/dmitrijs2005/idprov/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository is an in-memory reference implementation of Repository.
// The owned callback reports whether any account references a given media
// reference ID; it is used to detect orphans. The detach callback is invoked
// on Delete so owning accounts drop their reference, mirroring the
// ON DELETE SET NULL behavior of the schema.
type MemoryRepository struct {
	mu      sync.Mutex
	refs    map[string]*models.MediaReference
	backlog map[string]*models.CleanupTask
	owned   func(id string) bool
	detach  func(id string)
}

func NewMemoryRepository(owned func(id string) bool, detach func(id string)) *MemoryRepository {
	if owned == nil {
		owned = func(string) bool { return false }
	}
	if detach == nil {
		detach = func(string) {}
	}
	return &MemoryRepository{
		refs:    make(map[string]*models.MediaReference),
		backlog: make(map[string]*models.CleanupTask),
		owned:   owned,
		detach:  detach,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, ref *models.MediaReference) (*models.MediaReference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *ref
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.CreatedAt = time.Now()
	r.refs[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.MediaReference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref, ok := r.refs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	result := *ref
	return &result, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.refs, id)
	r.mu.Unlock()

	r.detach(id)
	return nil
}

func (r *MemoryRepository) SelectOrphans(ctx context.Context, cutoff time.Time) ([]*models.MediaReference, error) {
	r.mu.Lock()
	refs := make([]*models.MediaReference, 0, len(r.refs))
	for _, ref := range r.refs {
		copied := *ref
		refs = append(refs, &copied)
	}
	r.mu.Unlock()

	var orphans []*models.MediaReference
	for _, ref := range refs {
		if ref.CreatedAt.Before(cutoff) && !r.owned(ref.ID) {
			orphans = append(orphans, ref)
		}
	}
	return orphans, nil
}

func (r *MemoryRepository) EnqueueCleanup(ctx context.Context, task *models.CleanupTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backlog[task.RemotePublicID]; exists {
		return nil
	}
	stored := *task
	if stored.RecordedAt.IsZero() {
		stored.RecordedAt = time.Now()
	}
	r.backlog[stored.RemotePublicID] = &stored
	return nil
}

func (r *MemoryRepository) SelectCleanupBacklog(ctx context.Context, limit int) ([]*models.CleanupTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := make([]*models.CleanupTask, 0, len(r.backlog))
	for _, task := range r.backlog {
		copied := *task
		tasks = append(tasks, &copied)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].RecordedAt.Before(tasks[j].RecordedAt) })

	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func (r *MemoryRepository) DequeueCleanup(ctx context.Context, remotePublicID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.backlog, remotePublicID)
	return nil
}
