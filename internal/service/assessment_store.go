package service

import (
	"context"
	"sync"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/repository"
)

const defaultHistoryPerEntity = 1000

// AssessmentStore 内存版评估历史，按实体保存，超出上限丢弃最旧记录
type AssessmentStore struct {
	mu        sync.RWMutex
	maxPerKey int
	history   map[string][]*model.AssessmentRecord // Key: EntityID, oldest first
}

func NewAssessmentStore(maxPerEntity int) *AssessmentStore {
	if maxPerEntity <= 0 {
		maxPerEntity = defaultHistoryPerEntity
	}
	return &AssessmentStore{
		maxPerKey: maxPerEntity,
		history:   make(map[string][]*model.AssessmentRecord),
	}
}

func (s *AssessmentStore) Insert(ctx context.Context, rec *model.AssessmentRecord) error {
	if rec == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.history[rec.EntityID], rec)
	if len(list) > s.maxPerKey {
		list = list[len(list)-s.maxPerKey:]
	}
	s.history[rec.EntityID] = list
	return nil
}

// List returns records newest first, optionally bounded by [from, to].
func (s *AssessmentStore) List(ctx context.Context, entityID string, limit int, from, to *time.Time) ([]*model.AssessmentRecord, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.history[entityID]
	out := make([]*model.AssessmentRecord, 0, min(limit, len(list)))
	for i := len(list) - 1; i >= 0; i-- {
		rec := list[i]
		if from != nil && rec.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && rec.CreatedAt.After(*to) {
			continue
		}
		out = append(out, rec)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *AssessmentStore) Latest(ctx context.Context, entityID string) (*model.AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.history[entityID]
	if len(list) == 0 {
		return nil, repository.ErrAssessmentNotFound
	}
	return list[len(list)-1], nil
}
