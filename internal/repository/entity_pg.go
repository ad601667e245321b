package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"gorm.io/gorm"
)

// entityRow 用于处理 JSONB 序列化
type entityRow struct {
	ID            string `gorm:"primaryKey"`
	Name          string `gorm:"not null"`
	Type          string `gorm:"index"`
	Jurisdictions []byte `gorm:"type:jsonb"`
	Snapshot      []byte `gorm:"type:jsonb"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (entityRow) TableName() string { return "entities" }

type PostgresEntityRepo struct {
	db *gorm.DB
}

func NewPostgresEntityRepo(db *gorm.DB) *PostgresEntityRepo {
	return &PostgresEntityRepo{db: db}
}

func (r *PostgresEntityRepo) Create(ctx context.Context, e *model.Entity) error {
	row, err := toEntityRow(e)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *PostgresEntityRepo) Update(ctx context.Context, e *model.Entity) error {
	row, err := toEntityRow(e)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&entityRow{ID: e.ID}).Updates(map[string]interface{}{
		"name":          row.Name,
		"type":          row.Type,
		"jurisdictions": row.Jurisdictions,
		"snapshot":      row.Snapshot,
		"updated_at":    row.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEntityNotFound
	}
	return nil
}

func (r *PostgresEntityRepo) GetByID(ctx context.Context, id string) (*model.Entity, error) {
	var row entityRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEntityNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *PostgresEntityRepo) List(ctx context.Context, limit, offset int) ([]*model.Entity, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	var rows []entityRow
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*model.Entity, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *PostgresEntityRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entityRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEntityNotFound
	}
	return nil
}

func toEntityRow(e *model.Entity) (*entityRow, error) {
	jurisdictions, err := json.Marshal(e.Jurisdictions)
	if err != nil {
		return nil, err
	}
	var snapshot []byte
	if e.Snapshot != nil {
		if snapshot, err = json.Marshal(e.Snapshot); err != nil {
			return nil, err
		}
	}
	return &entityRow{
		ID:            e.ID,
		Name:          e.Name,
		Type:          string(e.Type),
		Jurisdictions: jurisdictions,
		Snapshot:      snapshot,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}, nil
}

func (row *entityRow) toDomain() (*model.Entity, error) {
	e := &model.Entity{
		ID:        row.ID,
		Name:      row.Name,
		Type:      model.EntityType(row.Type),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.Jurisdictions) > 0 {
		if err := json.Unmarshal(row.Jurisdictions, &e.Jurisdictions); err != nil {
			return nil, err
		}
	}
	if len(row.Snapshot) > 0 && string(row.Snapshot) != "null" {
		e.Snapshot = &model.EntityComplianceSnapshot{}
		if err := json.Unmarshal(row.Snapshot, e.Snapshot); err != nil {
			return nil, err
		}
	}
	return e, nil
}
