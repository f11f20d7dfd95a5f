package auth

import (
	"time"

	"github.com/google/uuid"
)

type AdminUser struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"column:username;type:varchar(50);uniqueIndex:uq_admin_username;not null"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(100);not null"`
	Role         string    `gorm:"column:role;type:varchar(20);not null;default:viewer"`
	Status       string    `gorm:"column:status;type:varchar(10);not null;default:active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
