package models

import (
	"time"

	"github.com/google/uuid"
)

// UplinkModel represents the database model for received uplinks.
// Rows are append-only: the pipeline reads them but never updates them.
type UplinkModel struct {
	UplinkUUID uuid.UUID `gorm:"type:uuid;primary_key"`
	DevEUI     string    `gorm:"type:varchar(16);not null;index"`
	ReceivedAt time.Time `gorm:"not null"`
	FPort      *int      `gorm:"type:integer"`
	Payload    []byte    `gorm:"type:bytea"`
	Metadata   []byte    `gorm:"type:jsonb"`
	Source     string    `gorm:"type:varchar(50);not null"`
	GatewayEUI *string   `gorm:"type:varchar(64)"`
	RSSI       *float64  `gorm:"type:double precision"`
	SNR        *float64  `gorm:"type:double precision"`
	InsertedAt time.Time `gorm:"not null;index"`
}

func (UplinkModel) TableName() string {
	return "uplinks"
}

// ReadingModel represents the database model for decoded readings.
// One row per uplink; a retry overwrites the previous decode result.
type ReadingModel struct {
	UplinkUUID uuid.UUID `gorm:"type:uuid;primary_key"`
	DevEUI     string    `gorm:"type:varchar(16);not null;index"`
	Fields     []byte    `gorm:"type:jsonb;not null"`
	DecodedAt  time.Time `gorm:"not null"`
}

func (ReadingModel) TableName() string {
	return "readings"
}
