package repository

import (
	"context"
	"sync"

	"github.com/suiholar/research-dao-backend/internal/keystore/domain"
)

// MemoryRepository keeps keys in process memory. Everything is lost on restart.
type MemoryRepository struct {
	mu   sync.RWMutex
	keys map[string]domain.KeyRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{keys: make(map[string]domain.KeyRecord)}
}

func (r *MemoryRepository) Get(_ context.Context, blobID string) (*domain.KeyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.keys[blobID]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return &rec, nil
}

// Put stores or overwrites the record for blobID.
func (r *MemoryRepository) Put(_ context.Context, blobID string, rec domain.KeyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[blobID] = rec
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, blobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, blobID)
	return nil
}

// Len returns the number of stored keys.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}
