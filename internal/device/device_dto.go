package device

import "time"

type RegisterDeviceRequest struct {
	DeviceName string  `json:"device_name" binding:"required"`
	Location   *string `json:"location"`
}

type DeviceResponse struct {
	ID         string     `json:"id"`
	DeviceID   string     `json:"device_id"`
	DeviceName string     `json:"device_name"`
	Location   *string    `json:"location,omitempty"`
	Status     string     `json:"status"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
}

// RegisterDeviceResponse is the only place the API key is ever returned.
type RegisterDeviceResponse struct {
	DeviceResponse
	APIKey string `json:"api_key"`
}
