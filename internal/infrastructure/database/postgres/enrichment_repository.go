package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainEnrichment "lorawan-transform-service/internal/domain/enrichment"
	"lorawan-transform-service/internal/infrastructure/database/postgres/models"
)

// EnrichmentRepository implements enrichment.Repository on Postgres. Every
// append also rewrites the uplink's row in enrichment_latest inside the same
// transaction, which is what keeps latest-state selection a plain indexed
// join instead of a max-per-group aggregate over the log.
type EnrichmentRepository struct {
	db *DB
}

func NewEnrichmentRepository(db *DB) domainEnrichment.Repository {
	return &EnrichmentRepository{db: db}
}

func (r *EnrichmentRepository) Append(ctx context.Context, uplinkUUID uuid.UUID, step, status, detail string) error {
	if detail == "" {
		detail = "(no detail)"
	}
	now := time.Now().UTC()

	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := models.EnrichmentLogModel{
			UplinkUUID: uplinkUUID,
			Step:       step,
			Status:     status,
			Detail:     detail,
			CreatedAt:  now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append enrichment log: %w", err)
		}

		latest := models.EnrichmentLatestModel{
			UplinkUUID: uplinkUUID,
			Step:       step,
			Status:     status,
			CreatedAt:  now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uplink_uuid"}},
			DoUpdates: clause.AssignmentColumns([]string{"step", "status", "created_at"}),
		}).Create(&latest).Error
		if err != nil {
			return fmt.Errorf("failed to update latest enrichment state: %w", err)
		}

		return nil
	})
}

func (r *EnrichmentRepository) Trail(ctx context.Context, uplinkUUID uuid.UUID) ([]*domainEnrichment.Entry, error) {
	var dbModels []models.EnrichmentLogModel
	err := r.db.DB.WithContext(ctx).
		Where("uplink_uuid = ?", uplinkUUID).
		Order("created_at ASC, id ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load enrichment trail: %w", err)
	}

	entries := make([]*domainEnrichment.Entry, 0, len(dbModels))
	for i := range dbModels {
		m := &dbModels[i]
		entries = append(entries, &domainEnrichment.Entry{
			ID:         m.ID,
			UplinkUUID: m.UplinkUUID,
			Step:       m.Step,
			Status:     m.Status,
			Detail:     m.Detail,
			CreatedAt:  m.CreatedAt,
		})
	}
	return entries, nil
}

func (r *EnrichmentRepository) CountByLatestState(ctx context.Context) ([]*domainEnrichment.StateCount, error) {
	var counts []*domainEnrichment.StateCount
	err := r.db.DB.WithContext(ctx).
		Model(&models.EnrichmentLatestModel{}).
		Select("step, status, count(*) as count").
		Group("step, status").
		Order("step, status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count latest states: %w", err)
	}

	return counts, nil
}
