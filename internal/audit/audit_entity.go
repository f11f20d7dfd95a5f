package audit

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is one recorded administrative or device action. Rows are append
// only; nothing in the system updates or deletes them.
type AuditLog struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Action    string    `gorm:"column:action;type:varchar(50);not null;index"`
	ActorType string    `gorm:"column:actor_type;type:varchar(20);not null"`
	ActorID   string    `gorm:"column:actor_id;type:varchar(100);not null;index"`
	Details   []byte    `gorm:"column:details;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
