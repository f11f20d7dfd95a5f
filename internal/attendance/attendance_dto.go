package attendance

import "time"

type TapRequest struct {
	UID string `json:"uid" binding:"required"`
	// Reader firmware sends its own clock; the server clock is authoritative
	// and this field is accepted but not trusted.
	Timestamp *time.Time `json:"timestamp"`
}

type SessionResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	EmployeeName    string     `json:"employee_name,omitempty"`
	EmployeeCode    string     `json:"employee_code,omitempty"`
	Date            string     `json:"date"`
	TimeIn          time.Time  `json:"time_in"`
	TimeOut         *time.Time `json:"time_out,omitempty"`
	DeviceIn        *string    `json:"device_in,omitempty"`
	DeviceOut       *string    `json:"device_out,omitempty"`
	IsLate          bool       `json:"is_late"`
	Notes           *string    `json:"notes,omitempty"`
	DurationMinutes *int64     `json:"duration_minutes"`
}

type TapResponse struct {
	Action       string          `json:"action"`
	Name         string          `json:"name"`
	EmployeeCode string          `json:"employee_code"`
	Time         time.Time       `json:"time"`
	IsLate       bool            `json:"is_late"`
	Notes        *string         `json:"notes"`
	Session      SessionResponse `json:"session"`
}

func mapSessionToResponse(s AttendanceSession) SessionResponse {
	resp := SessionResponse{
		ID:              s.ID.String(),
		EmployeeID:      s.EmployeeID.String(),
		Date:            s.Date,
		TimeIn:          s.TimeIn,
		TimeOut:         s.TimeOut,
		IsLate:          s.IsLate,
		Notes:           s.Notes,
		DurationMinutes: s.DurationMinutes(),
	}
	if s.DeviceIn != nil {
		v := s.DeviceIn.String()
		resp.DeviceIn = &v
	}
	if s.DeviceOut != nil {
		v := s.DeviceOut.String()
		resp.DeviceOut = &v
	}
	if s.Employee != nil {
		resp.EmployeeName = s.Employee.FullName
		resp.EmployeeCode = s.Employee.EmployeeCode
	}
	return resp
}
