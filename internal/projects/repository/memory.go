package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/suiholar/research-dao-backend/internal/projects/domain"
)

// MemoryRepo is the project registry used when no database is configured.
type MemoryRepo struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
	now      func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{projects: make(map[string]domain.Project), now: time.Now}
}

func (m *MemoryRepo) Create(_ context.Context, p *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, p.ID)
	}
	now := m.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	m.projects[p.ID] = *p
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *MemoryRepo) List(_ context.Context, f domain.ListFilter) ([]domain.Project, error) {
	m.mu.RLock()
	out := make([]domain.Project, 0, len(m.projects))
	for _, p := range m.projects {
		if f.Owner == "" || p.Owner == f.Owner {
			out = append(out, p)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryRepo) ListOnChain(ctx context.Context) ([]domain.Project, error) {
	all, err := m.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(all))
	for _, p := range all {
		if p.OnChain() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryRepo) UpdateFunding(_ context.Context, id string, mist uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentFundingMist = mist
	p.UpdatedAt = m.now().UTC()
	m.projects[id] = p
	return nil
}
