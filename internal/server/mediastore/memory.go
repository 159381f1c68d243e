package mediastore

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/idprov/internal/common"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory reference implementation of Store, used by
// tests and local development. It counts calls so cascade behavior can be
// asserted on.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	UploadCalls int
	DeleteCalls int
	// Deleted records the public ids passed to Delete, in order.
	Deleted []string

	// UploadErr / DeleteErr, when set, are returned by the respective calls.
	UploadErr error
	DeleteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(ctx context.Context, data []byte, contentType string) (*UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.UploadCalls++
	if s.UploadErr != nil {
		return nil, s.UploadErr
	}

	id := uuid.NewString()
	s.objects[id] = data
	return &UploadResult{URL: "memory://media/" + id, PublicID: id}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.DeleteCalls++
	s.Deleted = append(s.Deleted, publicID)
	if s.DeleteErr != nil {
		return s.DeleteErr
	}

	if _, ok := s.objects[publicID]; !ok {
		return common.ErrorNotFound
	}
	delete(s.objects, publicID)
	return nil
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
