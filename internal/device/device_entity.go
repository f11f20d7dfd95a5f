package device

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Device struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	DeviceID   string     `gorm:"column:device_id;type:varchar(50);uniqueIndex:uq_device_device_id;not null"`
	DeviceName string     `gorm:"column:device_name;type:varchar(100);not null"`
	APIKey     string     `gorm:"column:api_key;type:varchar(255);uniqueIndex:uq_device_api_key;not null"`
	Location   *string    `gorm:"column:location;type:varchar(100)"`
	Status     string     `gorm:"column:status;type:varchar(10);not null;default:active"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	LastSeen   *time.Time `gorm:"column:last_seen"`
}

func (Device) TableName() string {
	return "devices"
}
