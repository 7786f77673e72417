package models

import "time"

// DeviceContextModel represents the database model for device contexts.
// CodecBindingID is null for orphans. Contexts are archived, never deleted.
type DeviceContextModel struct {
	DevEUI         string     `gorm:"type:varchar(16);primary_key"`
	Name           *string    `gorm:"type:varchar(255)"`
	CodecBindingID *int       `gorm:"type:integer;index"`
	LastGateway    *string    `gorm:"type:varchar(64)"`
	LifecycleState string     `gorm:"type:varchar(50);not null;default:'NEW_ORPHAN'"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
	AssignedAt     time.Time  `gorm:"not null"`
	ArchivedAt     *time.Time `gorm:"type:timestamp"`

	CodecBinding *CodecBindingModel `gorm:"foreignKey:CodecBindingID"`
}

func (DeviceContextModel) TableName() string {
	return "device_context"
}

// CodecBindingModel represents the database model for device-model to codec
// bindings.
type CodecBindingModel struct {
	ID          int        `gorm:"primary_key;autoIncrement"`
	Model       string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description *string    `gorm:"type:text"`
	Codec       string     `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time  `gorm:"not null"`
	ArchivedAt  *time.Time `gorm:"type:timestamp"`
}

func (CodecBindingModel) TableName() string {
	return "codec_bindings"
}
