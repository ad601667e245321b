package service

import (
	"context"
	"sort"
	"sync"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/repository"
)

// EntityRegistry 内存版实体存储，未配置数据库时使用
type EntityRegistry struct {
	mu       sync.RWMutex
	entities map[string]*model.Entity
}

func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{
		entities: make(map[string]*model.Entity),
	}
}

func (r *EntityRegistry) Create(ctx context.Context, e *model.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities[e.ID] = cloneEntity(e)
	return nil
}

func (r *EntityRegistry) Update(ctx context.Context, e *model.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entities[e.ID]; !ok {
		return repository.ErrEntityNotFound
	}
	r.entities[e.ID] = cloneEntity(e)
	return nil
}

func (r *EntityRegistry) GetByID(ctx context.Context, id string) (*model.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[id]
	if !ok {
		return nil, repository.ErrEntityNotFound
	}
	return cloneEntity(e), nil
}

// List returns entities newest first.
func (r *EntityRegistry) List(ctx context.Context, limit, offset int) ([]*model.Entity, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	all := make([]*model.Entity, 0, len(r.entities))
	for _, e := range r.entities {
		all = append(all, e)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []*model.Entity{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]*model.Entity, 0, end-offset)
	for _, e := range all[offset:end] {
		out = append(out, cloneEntity(e))
	}
	return out, nil
}

func (r *EntityRegistry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entities[id]; !ok {
		return repository.ErrEntityNotFound
	}
	delete(r.entities, id)
	return nil
}

// snapshots are replaced wholesale, never mutated in place, so sharing the pointer is safe
func cloneEntity(e *model.Entity) *model.Entity {
	c := *e
	if e.Jurisdictions != nil {
		c.Jurisdictions = append([]string(nil), e.Jurisdictions...)
	}
	return &c
}
