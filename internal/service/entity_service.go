package service

import (
	"context"
	"strings"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/pkg/apperrors"
	"github.com/google/uuid"
)

type EntityRepo interface {
	Create(ctx context.Context, e *model.Entity) error
	Update(ctx context.Context, e *model.Entity) error
	GetByID(ctx context.Context, id string) (*model.Entity, error)
	List(ctx context.Context, limit, offset int) ([]*model.Entity, error)
	Delete(ctx context.Context, id string) error
}

type EntityCreateRequest struct {
	Name          string                          `json:"name" binding:"required"`
	Type          model.EntityType                `json:"type" binding:"required"`
	Jurisdictions []string                        `json:"jurisdictions"`
	Snapshot      *model.EntityComplianceSnapshot `json:"snapshot"`
}

type EntityUpdateRequest struct {
	Name          *string           `json:"name"`
	Type          *model.EntityType `json:"type"`
	Jurisdictions []string          `json:"jurisdictions"`
}

type EntityService struct {
	repo EntityRepo
	now  func() time.Time
}

func NewEntityService(repo EntityRepo) *EntityService {
	return &EntityService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *EntityService) Create(ctx context.Context, req EntityCreateRequest) (*model.Entity, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewInvalidRequest("name is required")
	}
	if !req.Type.Valid() {
		return nil, apperrors.NewInvalidRequest("unknown entity type " + string(req.Type))
	}
	if err := checkSnapshot(req.Snapshot); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entity := &model.Entity{
		ID:            uuid.NewString(),
		Name:          name,
		Type:          req.Type,
		Jurisdictions: cleanJurisdictions(req.Jurisdictions),
		Snapshot:      req.Snapshot,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *EntityService) Get(ctx context.Context, id string) (*model.Entity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EntityService) List(ctx context.Context, limit, offset int) ([]*model.Entity, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *EntityService) Update(ctx context.Context, id string, req EntityUpdateRequest) (*model.Entity, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewInvalidRequest("name cannot be blank")
		}
		entity.Name = name
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, apperrors.NewInvalidRequest("unknown entity type " + string(*req.Type))
		}
		entity.Type = *req.Type
	}
	if req.Jurisdictions != nil {
		entity.Jurisdictions = cleanJurisdictions(req.Jurisdictions)
	}
	entity.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// PutSnapshot replaces the entity's compliance snapshot after range validation.
func (s *EntityService) PutSnapshot(ctx context.Context, id string, snapshot *model.EntityComplianceSnapshot) (*model.Entity, error) {
	if snapshot == nil {
		return nil, apperrors.NewInvalidRequest("snapshot is required")
	}
	if err := checkSnapshot(snapshot); err != nil {
		return nil, err
	}
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entity.Snapshot = snapshot
	entity.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *EntityService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func cleanJurisdictions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, j := range in {
		j = strings.TrimSpace(j)
		if j == "" {
			continue
		}
		key := strings.ToLower(j)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, j)
	}
	return out
}
