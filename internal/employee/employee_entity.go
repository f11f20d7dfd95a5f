package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProgramCpE = "CpE"
	ProgramIT  = "IT"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// RequiredHoursForProgram maps an enrollment program to its internship
// hour target.
func RequiredHoursForProgram(program string) int {
	if program == ProgramIT {
		return 500
	}
	return 320
}

type Employee struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeCode  string    `gorm:"column:employee_code;type:varchar(20);uniqueIndex:uq_employee_code;not null"`
	FullName      string    `gorm:"column:full_name;type:varchar(100);not null"`
	RFIDUID       *string   `gorm:"column:rfid_uid;type:varchar(50);uniqueIndex:uq_employee_rfid_uid"`
	Role          string    `gorm:"column:role;type:varchar(20);not null;default:intern"`
	Program       string    `gorm:"column:program;type:varchar(10);not null;default:CpE"`
	RequiredHours int       `gorm:"column:required_hours;not null;default:320"`
	PhotoURL      *string   `gorm:"column:photo_url;type:varchar(255)"`
	Status        string    `gorm:"column:status;type:varchar(10);not null;default:active;index"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
