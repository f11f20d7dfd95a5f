package dtr

import "time"

// DTREntry is one qualifying weekday session in the report listing.
type DTREntry struct {
	SessionID string     `json:"session_id"`
	Date      string     `json:"date"`
	TimeIn    time.Time  `json:"time_in"`
	TimeOut   *time.Time `json:"time_out,omitempty"`
	Hours     float64    `json:"hours"`
	IsLate    bool       `json:"is_late"`
	Notes     *string    `json:"notes,omitempty"`
}

// DTRSummary is the worked-hours report for one employee over a date range.
// ProgressPercentage is a fixed two-decimal string, "N/A" when the employee
// has no required-hours target. HoursRemaining goes negative once the target
// is exceeded.
type DTRSummary struct {
	EmployeeID         string     `json:"employee_id"`
	EmployeeCode       string     `json:"employee_code"`
	FullName           string     `json:"full_name"`
	Program            string     `json:"program"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date"`
	TotalHours         float64    `json:"total_hours"`
	RequiredHours      int        `json:"required_hours"`
	HoursRemaining     float64    `json:"hours_remaining"`
	ProgressPercentage string     `json:"progress_percentage"`
	SessionCount       int        `json:"session_count"`
	Entries            []DTREntry `json:"entries"`
}
