package postgres

import (
	"fmt"

	"lorawan-transform-service/internal/infrastructure/database/postgres/models"
)

// Migrate creates or updates the pipeline tables.
func (d *DB) Migrate() error {
	err := d.DB.AutoMigrate(
		&models.CodecBindingModel{},
		&models.DeviceContextModel{},
		&models.UplinkModel{},
		&models.ReadingModel{},
		&models.EnrichmentLogModel{},
		&models.EnrichmentLatestModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
