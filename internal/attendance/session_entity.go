package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionTimeIn  = "TIME_IN"
	ActionTimeOut = "TIME_OUT"
)

// AttendanceSession is one time-in/time-out interval for an employee on a
// calendar date. Date is the deployment-local date string (YYYY-MM-DD), not a
// UTC day boundary. A date may hold many closed sessions (lunch cycles) but
// at most one open one.
type AttendanceSession struct {
	ID         uuid.UUID    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID    `gorm:"column:employee_id;type:uuid;not null;index:idx_session_employee_date"`
	Date       string       `gorm:"column:date;type:date;not null;index:idx_session_employee_date;index"`
	TimeIn     time.Time    `gorm:"column:time_in;type:timestamptz;not null"`
	TimeOut    *time.Time   `gorm:"column:time_out;type:timestamptz"`
	DeviceIn   *uuid.UUID   `gorm:"column:device_in;type:uuid"`
	DeviceOut  *uuid.UUID   `gorm:"column:device_out;type:uuid"`
	IsLate     bool         `gorm:"column:is_late;not null;default:false"`
	Notes      *string      `gorm:"column:notes;type:text"`
	CreatedAt  time.Time    `gorm:"column:created_at"`
	Employee   *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

// Open reports whether the session has no time-out yet.
func (s *AttendanceSession) Open() bool {
	return s.TimeOut == nil
}

// DurationMinutes is the wall-clock session length truncated to whole
// minutes, or nil while the session is still open.
func (s *AttendanceSession) DurationMinutes() *int64 {
	if s.TimeOut == nil {
		return nil
	}
	d := int64(s.TimeOut.Sub(s.TimeIn) / time.Minute)
	return &d
}

type EmployeeRef struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName     string    `gorm:"column:full_name"`
	EmployeeCode string    `gorm:"column:employee_code"`
	PhotoURL     *string   `gorm:"column:photo_url"`
	Role         string    `gorm:"column:role"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
