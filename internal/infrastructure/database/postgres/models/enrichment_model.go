package models

import (
	"time"

	"github.com/google/uuid"
)

// EnrichmentLogModel represents the database model for the append-only
// enrichment log.
type EnrichmentLogModel struct {
	ID         int64     `gorm:"primary_key;autoIncrement"`
	UplinkUUID uuid.UUID `gorm:"type:uuid;not null;index"`
	Step       string    `gorm:"type:varchar(50);not null"`
	Status     string    `gorm:"type:varchar(50);not null"`
	Detail     string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

func (EnrichmentLogModel) TableName() string {
	return "enrichment_logs"
}

// EnrichmentLatestModel is the latest-state index over enrichment_logs: one
// row per uplink, rewritten in the same transaction as every log append.
// Stage selection queries join against this table instead of aggregating
// the log.
type EnrichmentLatestModel struct {
	UplinkUUID uuid.UUID `gorm:"type:uuid;primary_key"`
	Step       string    `gorm:"type:varchar(50);not null;index:idx_enrichment_latest_state"`
	Status     string    `gorm:"type:varchar(50);not null;index:idx_enrichment_latest_state"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (EnrichmentLatestModel) TableName() string {
	return "enrichment_latest"
}
