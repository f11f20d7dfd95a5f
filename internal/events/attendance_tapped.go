package events

import "time"

const AttendanceTappedTopic = "attendance.tapped"

// AttendanceTappedEvent is broadcast after every decided tap so dashboards
// and notifiers can follow attendance in near real time.
type AttendanceTappedEvent struct {
	SessionID    string    `json:"session_id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	EmployeeCode string    `json:"employee_code"`
	Action       string    `json:"action"` // TIME_IN | TIME_OUT
	DeviceID     string    `json:"device_id"`
	IsLate       bool      `json:"is_late"`
	Notes        string    `json:"notes,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
