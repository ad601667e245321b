package service

import (
	"context"
	"errors"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/pkg/apperrors"
	"github.com/complyhub/riskgate/internal/pkg/logger"
	"github.com/complyhub/riskgate/internal/pkg/metrics"
	"github.com/complyhub/riskgate/internal/repository"
	"github.com/complyhub/riskgate/internal/risk"
	"github.com/complyhub/riskgate/internal/signer"
	"github.com/google/uuid"
)

const (
	SourceEntity = "entity"
	SourceAdHoc  = "adhoc"
)

var ErrNoSnapshot = errors.New("entity has no compliance snapshot")

type AssessmentRepo interface {
	Insert(ctx context.Context, rec *model.AssessmentRecord) error
	List(ctx context.Context, entityID string, limit int, from, to *time.Time) ([]*model.AssessmentRecord, error)
	Latest(ctx context.Context, entityID string) (*model.AssessmentRecord, error)
}

// LatestCache is a read-through cache of the newest record per entity.
// GetLatest returns (nil, nil) on a miss.
type LatestCache interface {
	SetLatest(ctx context.Context, rec *model.AssessmentRecord) error
	GetLatest(ctx context.Context, entityID string) (*model.AssessmentRecord, error)
}

type Publisher interface {
	Publish(rec *model.AssessmentRecord)
}

type AttestationSigner interface {
	Sign(att *model.Attestation) error
}

type AssessmentOption func(*AssessmentService)

func WithLatestCache(cache LatestCache) AssessmentOption {
	return func(s *AssessmentService) { s.cache = cache }
}

func WithPublisher(p Publisher) AssessmentOption {
	return func(s *AssessmentService) { s.publisher = p }
}

func WithAttestationSigner(sg AttestationSigner) AssessmentOption {
	return func(s *AssessmentService) { s.signer = sg }
}

// AssessmentService 负责实体评估：计算、持久化、缓存、推送、签名
type AssessmentService struct {
	engine    *risk.Engine
	entities  EntityRepo
	repo      AssessmentRepo
	cache     LatestCache
	publisher Publisher
	signer    AttestationSigner
}

func NewAssessmentService(engine *risk.Engine, entities EntityRepo, repo AssessmentRepo, opts ...AssessmentOption) *AssessmentService {
	s := &AssessmentService{
		engine:   engine,
		entities: entities,
		repo:     repo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AssessmentService) Policy() risk.Policy {
	return s.engine.Policy()
}

// AssessEntity scores the entity's stored snapshot and records the result.
func (s *AssessmentService) AssessEntity(ctx context.Context, entityID string) (*model.AssessmentRecord, error) {
	entity, err := s.entities.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if entity.Snapshot == nil {
		return nil, ErrNoSnapshot
	}

	assessment, err := s.engine.Assess(entity.Snapshot)
	if err != nil {
		recordRejects(err)
		return nil, err
	}

	rec := &model.AssessmentRecord{
		ID:         uuid.NewString(),
		EntityID:   entity.ID,
		Assessment: *assessment,
		CreatedAt:  assessment.AssessedAt,
	}
	if s.signer != nil {
		att := signer.NewAttestation(entity.ID, assessment)
		if err := s.signer.Sign(att); err != nil {
			logger.Error("Failed to sign attestation", "entity_id", entity.ID, "error", err)
		} else {
			rec.Attestation = att
		}
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, apperrors.New(apperrors.ErrInternal, "failed to store assessment", err)
	}
	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, rec); err != nil {
			logger.Warn("Failed to cache latest assessment", "entity_id", entity.ID, "error", err)
		}
	}

	observe(assessment, SourceEntity)
	logger.Info("Entity assessed",
		"entity_id", entity.ID,
		"overall_score", assessment.OverallScore,
		"risk_level", assessment.RiskLevel,
	)

	if s.publisher != nil {
		s.publisher.Publish(rec)
	}
	return rec, nil
}

// AssessSnapshot scores a snapshot without persisting anything.
func (s *AssessmentService) AssessSnapshot(ctx context.Context, snapshot *model.EntityComplianceSnapshot) (*model.RiskAssessment, error) {
	assessment, err := s.engine.Assess(snapshot)
	if err != nil {
		recordRejects(err)
		return nil, err
	}
	observe(assessment, SourceAdHoc)
	return assessment, nil
}

func (s *AssessmentService) History(ctx context.Context, entityID string, limit int, from, to *time.Time) ([]*model.AssessmentRecord, error) {
	if _, err := s.entities.GetByID(ctx, entityID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, entityID, limit, from, to)
}

func (s *AssessmentService) Latest(ctx context.Context, entityID string) (*model.AssessmentRecord, error) {
	if _, err := s.entities.GetByID(ctx, entityID); err != nil {
		return nil, err
	}
	if s.cache != nil {
		rec, err := s.cache.GetLatest(ctx, entityID)
		if err != nil {
			logger.Warn("Latest assessment cache read failed", "entity_id", entityID, "error", err)
		} else if rec != nil {
			return rec, nil
		}
	}

	rec, err := s.repo.Latest(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetLatest(ctx, rec)
	}
	return rec, nil
}

func observe(a *model.RiskAssessment, source string) {
	metrics.AssessmentsTotal.WithLabelValues(string(a.RiskLevel), source).Inc()
	metrics.OverallScore.Observe(a.OverallScore)
}

// checkSnapshot validates an optional snapshot before it is stored.
func checkSnapshot(snapshot *model.EntityComplianceSnapshot) error {
	if snapshot == nil {
		return nil
	}
	err := risk.Validate(snapshot)
	recordRejects(err)
	return err
}

func recordRejects(err error) {
	var verr *risk.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, v := range verr.Violations {
		metrics.ValidationRejects.WithLabelValues(v.Field).Inc()
	}
}

// IsNotFound reports whether err means the entity or assessment does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrEntityNotFound) || errors.Is(err, repository.ErrAssessmentNotFound)
}
