package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	domainDevice "lorawan-transform-service/internal/domain/device"
	"lorawan-transform-service/internal/infrastructure/database/postgres/models"
)

// DeviceRepository implements device.Repository on Postgres.
type DeviceRepository struct {
	db *DB
}

func NewDeviceRepository(db *DB) domainDevice.Repository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) GetContext(ctx context.Context, devEUI string) (*domainDevice.Context, error) {
	var dbModel models.DeviceContextModel
	err := r.db.DB.WithContext(ctx).
		Where("dev_eui = ?", devEUI).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device context: %w", err)
	}

	return toContextEntity(&dbModel), nil
}

func (r *DeviceRepository) EnsureOrphan(ctx context.Context, devEUI string, gatewayEUI *string) error {
	var existing models.DeviceContextModel
	err := r.db.DB.WithContext(ctx).
		Where("dev_eui = ?", devEUI).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check device context: %w", err)
	}

	now := time.Now().UTC()
	dbModel := models.DeviceContextModel{
		DevEUI:         devEUI,
		LastGateway:    gatewayEUI,
		LifecycleState: string(domainDevice.StateOrphan),
		CreatedAt:      now,
		UpdatedAt:      now,
		AssignedAt:     now,
	}

	if err := r.db.DB.WithContext(ctx).Create(&dbModel).Error; err != nil {
		// A concurrent ingest may have inserted the same DevEUI between the
		// check and the insert; that outcome is the one we wanted anyway.
		if strings.Contains(err.Error(), "duplicate key value") {
			return nil
		}
		return fmt.Errorf("failed to insert orphan device context: %w", err)
	}

	return nil
}

func (r *DeviceRepository) CodecName(ctx context.Context, devEUI string) (string, error) {
	var dbModel models.DeviceContextModel
	err := r.db.DB.WithContext(ctx).
		Preload("CodecBinding").
		Where("dev_eui = ?", devEUI).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domainDevice.ErrDeviceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve codec name: %w", err)
	}
	if dbModel.CodecBindingID == nil || dbModel.CodecBinding == nil {
		return "", domainDevice.ErrNoModelAssigned
	}

	return dbModel.CodecBinding.Codec, nil
}

func (r *DeviceRepository) AssignBinding(ctx context.Context, devEUI string, bindingID int) error {
	var binding models.CodecBindingModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", bindingID).
		First(&binding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainDevice.ErrBindingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check codec binding: %w", err)
	}

	now := time.Now().UTC()
	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceContextModel{}).
		Where("dev_eui = ?", devEUI).
		Updates(map[string]interface{}{
			"codec_binding_id": bindingID,
			"lifecycle_state":  string(domainDevice.StateAssigned),
			"assigned_at":      now,
			"updated_at":       now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to assign codec binding: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) UpdateLastGateway(ctx context.Context, devEUI string, gatewayEUI string) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceContextModel{}).
		Where("dev_eui = ?", devEUI).
		Updates(map[string]interface{}{
			"last_gateway": gatewayEUI,
			"updated_at":   time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update last gateway: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) Archive(ctx context.Context, devEUI string) error {
	now := time.Now().UTC()
	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceContextModel{}).
		Where("dev_eui = ? AND archived_at IS NULL", devEUI).
		Updates(map[string]interface{}{
			"archived_at":     now,
			"lifecycle_state": string(domainDevice.StateArchived),
			"updated_at":      now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to archive device context: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) ListContexts(ctx context.Context, filter *domainDevice.Filter) ([]*domainDevice.Context, error) {
	query := r.db.DB.WithContext(ctx).Model(&models.DeviceContextModel{})

	if filter != nil {
		if filter.LifecycleState != nil {
			query = query.Where("lifecycle_state = ?", string(*filter.LifecycleState))
		}
		if filter.OrphansOnly {
			query = query.Where("codec_binding_id IS NULL AND archived_at IS NULL")
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			query = query.Offset(filter.Offset)
		}
	}

	var dbModels []models.DeviceContextModel
	if err := query.Order("dev_eui ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list device contexts: %w", err)
	}

	contexts := make([]*domainDevice.Context, 0, len(dbModels))
	for i := range dbModels {
		contexts = append(contexts, toContextEntity(&dbModels[i]))
	}
	return contexts, nil
}

func (r *DeviceRepository) GetBinding(ctx context.Context, id int) (*domainDevice.CodecBinding, error) {
	var dbModel models.CodecBindingModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrBindingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get codec binding: %w", err)
	}

	return toBindingEntity(&dbModel), nil
}

func (r *DeviceRepository) ListBindings(ctx context.Context) ([]*domainDevice.CodecBinding, error) {
	var dbModels []models.CodecBindingModel
	err := r.db.DB.WithContext(ctx).
		Where("archived_at IS NULL").
		Order("model ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list codec bindings: %w", err)
	}

	bindings := make([]*domainDevice.CodecBinding, 0, len(dbModels))
	for i := range dbModels {
		bindings = append(bindings, toBindingEntity(&dbModels[i]))
	}
	return bindings, nil
}

func (r *DeviceRepository) SeedBindings(ctx context.Context, bindings []*domainDevice.CodecBinding) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, b := range bindings {
			var count int64
			if err := tx.Model(&models.CodecBindingModel{}).
				Where("model = ?", b.Model).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check codec binding %q: %w", b.Model, err)
			}
			if count > 0 {
				continue
			}

			dbModel := models.CodecBindingModel{
				Model:       b.Model,
				Description: b.Description,
				Codec:       b.Codec,
				CreatedAt:   time.Now().UTC(),
			}
			if err := tx.Create(&dbModel).Error; err != nil {
				return fmt.Errorf("failed to seed codec binding %q: %w", b.Model, err)
			}
		}
		return nil
	})
}

func toContextEntity(dbModel *models.DeviceContextModel) *domainDevice.Context {
	return &domainDevice.Context{
		DevEUI:         dbModel.DevEUI,
		Name:           dbModel.Name,
		CodecBindingID: dbModel.CodecBindingID,
		LastGateway:    dbModel.LastGateway,
		LifecycleState: domainDevice.LifecycleState(dbModel.LifecycleState),
		CreatedAt:      dbModel.CreatedAt,
		UpdatedAt:      dbModel.UpdatedAt,
		AssignedAt:     dbModel.AssignedAt,
		ArchivedAt:     dbModel.ArchivedAt,
	}
}

func toBindingEntity(dbModel *models.CodecBindingModel) *domainDevice.CodecBinding {
	return &domainDevice.CodecBinding{
		ID:          dbModel.ID,
		Model:       dbModel.Model,
		Description: dbModel.Description,
		Codec:       dbModel.Codec,
		CreatedAt:   dbModel.CreatedAt,
		ArchivedAt:  dbModel.ArchivedAt,
	}
}
