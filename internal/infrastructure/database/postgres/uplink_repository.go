package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainUplink "lorawan-transform-service/internal/domain/uplink"
	"lorawan-transform-service/internal/infrastructure/database/postgres/models"
)

// UplinkRepository implements uplink.Repository on Postgres.
type UplinkRepository struct {
	db *DB
}

func NewUplinkRepository(db *DB) domainUplink.Repository {
	return &UplinkRepository{db: db}
}

func (r *UplinkRepository) Create(ctx context.Context, up *domainUplink.Uplink) error {
	if up.UplinkUUID == uuid.Nil {
		up.UplinkUUID = uuid.New()
	}
	if up.InsertedAt.IsZero() {
		up.InsertedAt = time.Now().UTC()
	}

	dbModel, err := toUplinkModel(up)
	if err != nil {
		return err
	}

	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return fmt.Errorf("uplink %s already stored: %w", up.UplinkUUID, err)
		}
		return fmt.Errorf("failed to create uplink: %w", err)
	}

	return nil
}

func (r *UplinkRepository) GetByID(ctx context.Context, uplinkUUID uuid.UUID) (*domainUplink.Uplink, error) {
	var dbModel models.UplinkModel
	err := r.db.DB.WithContext(ctx).
		Where("uplink_uuid = ?", uplinkUUID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUplink.ErrUplinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get uplink: %w", err)
	}

	return toUplinkEntity(&dbModel)
}

func (r *UplinkRepository) FindByLatestState(ctx context.Context, step, status string, limit int) ([]*domainUplink.Uplink, error) {
	var dbModels []models.UplinkModel
	err := r.db.DB.WithContext(ctx).
		Model(&models.UplinkModel{}).
		Joins("JOIN enrichment_latest el ON el.uplink_uuid = uplinks.uplink_uuid").
		Where("el.step = ? AND el.status = ?", step, status).
		Order("uplinks.inserted_at ASC").
		Limit(limit).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select uplinks by latest state: %w", err)
	}

	ups := make([]*domainUplink.Uplink, 0, len(dbModels))
	for i := range dbModels {
		up, err := toUplinkEntity(&dbModels[i])
		if err != nil {
			return nil, err
		}
		ups = append(ups, up)
	}
	return ups, nil
}

func (r *UplinkRepository) SaveReading(ctx context.Context, reading *domainUplink.Reading) error {
	fields, err := json.Marshal(reading.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal reading fields: %w", err)
	}

	dbModel := models.ReadingModel{
		UplinkUUID: reading.UplinkUUID,
		DevEUI:     reading.DevEUI,
		Fields:     fields,
		DecodedAt:  reading.DecodedAt,
	}

	err = r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uplink_uuid"}},
			DoUpdates: clause.AssignmentColumns([]string{"dev_eui", "fields", "decoded_at"}),
		}).
		Create(&dbModel).Error
	if err != nil {
		return fmt.Errorf("failed to save reading: %w", err)
	}

	return nil
}

func (r *UplinkRepository) GetReading(ctx context.Context, uplinkUUID uuid.UUID) (*domainUplink.Reading, error) {
	var dbModel models.ReadingModel
	err := r.db.DB.WithContext(ctx).
		Where("uplink_uuid = ?", uplinkUUID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUplink.ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reading: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(dbModel.Fields, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reading fields: %w", err)
	}

	return &domainUplink.Reading{
		UplinkUUID: dbModel.UplinkUUID,
		DevEUI:     dbModel.DevEUI,
		Fields:     fields,
		DecodedAt:  dbModel.DecodedAt,
	}, nil
}

func toUplinkModel(up *domainUplink.Uplink) (*models.UplinkModel, error) {
	var metadata []byte
	if up.Metadata != nil {
		var err error
		metadata, err = json.Marshal(up.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal uplink metadata: %w", err)
		}
	}

	return &models.UplinkModel{
		UplinkUUID: up.UplinkUUID,
		DevEUI:     up.DevEUI,
		ReceivedAt: up.ReceivedAt,
		FPort:      up.FPort,
		Payload:    up.Payload,
		Metadata:   metadata,
		Source:     up.Source,
		GatewayEUI: up.GatewayEUI,
		RSSI:       up.RSSI,
		SNR:        up.SNR,
		InsertedAt: up.InsertedAt,
	}, nil
}

func toUplinkEntity(dbModel *models.UplinkModel) (*domainUplink.Uplink, error) {
	var metadata map[string]any
	if len(dbModel.Metadata) > 0 {
		if err := json.Unmarshal(dbModel.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal uplink metadata: %w", err)
		}
	}

	return &domainUplink.Uplink{
		UplinkUUID: dbModel.UplinkUUID,
		DevEUI:     dbModel.DevEUI,
		ReceivedAt: dbModel.ReceivedAt,
		FPort:      dbModel.FPort,
		Payload:    dbModel.Payload,
		Metadata:   metadata,
		Source:     dbModel.Source,
		GatewayEUI: dbModel.GatewayEUI,
		RSSI:       dbModel.RSSI,
		SNR:        dbModel.SNR,
		InsertedAt: dbModel.InsertedAt,
	}, nil
}
