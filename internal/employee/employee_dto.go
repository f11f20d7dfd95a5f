package employee

type CreateEmployeeRequest struct {
	FullName     string  `json:"full_name" binding:"required"`
	EmployeeCode string  `json:"employee_code" binding:"required"`
	Role         string  `json:"role"`
	Program      string  `json:"program"`
	PhotoURL     *string `json:"photo_url"`
}

type UpdateEmployeeRequest struct {
	FullName     string  `json:"full_name" binding:"required"`
	EmployeeCode string  `json:"employee_code" binding:"required"`
	Role         string  `json:"role"`
	Program      string  `json:"program"`
	RFIDUID      *string `json:"rfid_uid"`
	PhotoURL     *string `json:"photo_url"`
}

type AssignCardRequest struct {
	RFIDUID string `json:"rfid_uid" binding:"required"`
}

type EmployeeResponse struct {
	ID            string  `json:"id"`
	EmployeeCode  string  `json:"employee_code"`
	FullName      string  `json:"full_name"`
	RFIDUID       *string `json:"rfid_uid,omitempty"`
	Role          string  `json:"role"`
	Program       string  `json:"program"`
	RequiredHours int     `json:"required_hours"`
	PhotoURL      *string `json:"photo_url,omitempty"`
	Status        string  `json:"status"`
}

type AssignCardResponse struct {
	EmployeeID string `json:"employee_id"`
	RFIDUID    string `json:"rfid_uid"`
}
