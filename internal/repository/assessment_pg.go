package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"gorm.io/gorm"
)

type assessmentRow struct {
	ID           string `gorm:"primaryKey"`
	EntityID     string `gorm:"index:idx_assessments_entity,priority:1"`
	OverallScore float64
	RiskLevel    string
	Payload      []byte    `gorm:"type:jsonb"` // 完整的 RiskAssessment
	Attestation  []byte    `gorm:"type:jsonb"`
	CreatedAt    time.Time `gorm:"index:idx_assessments_entity,priority:2,sort:desc"`
}

func (assessmentRow) TableName() string { return "risk_assessments" }

type PostgresAssessmentRepo struct {
	db *gorm.DB
}

func NewPostgresAssessmentRepo(db *gorm.DB) *PostgresAssessmentRepo {
	return &PostgresAssessmentRepo{db: db}
}

func (r *PostgresAssessmentRepo) Insert(ctx context.Context, rec *model.AssessmentRecord) error {
	if rec == nil {
		return nil
	}
	payload, err := json.Marshal(rec.Assessment)
	if err != nil {
		return err
	}
	var attestation []byte
	if rec.Attestation != nil {
		if attestation, err = json.Marshal(rec.Attestation); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Create(&assessmentRow{
		ID:           rec.ID,
		EntityID:     rec.EntityID,
		OverallScore: rec.Assessment.OverallScore,
		RiskLevel:    string(rec.Assessment.RiskLevel),
		Payload:      payload,
		Attestation:  attestation,
		CreatedAt:    rec.CreatedAt,
	}).Error
}

func (r *PostgresAssessmentRepo) List(ctx context.Context, entityID string, limit int, from, to *time.Time) ([]*model.AssessmentRecord, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	q := r.db.WithContext(ctx).Where("entity_id = ?", entityID)
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	var rows []assessmentRow
	if err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*model.AssessmentRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *PostgresAssessmentRepo) Latest(ctx context.Context, entityID string) (*model.AssessmentRecord, error) {
	var row assessmentRow
	err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (row *assessmentRow) toDomain() (*model.AssessmentRecord, error) {
	rec := &model.AssessmentRecord{
		ID:        row.ID,
		EntityID:  row.EntityID,
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal(row.Payload, &rec.Assessment); err != nil {
		return nil, err
	}
	if len(row.Attestation) > 0 && string(row.Attestation) != "null" {
		rec.Attestation = &model.Attestation{}
		if err := json.Unmarshal(row.Attestation, rec.Attestation); err != nil {
			return nil, err
		}
	}
	return rec, nil
}
