package dto

import "time"

// APIResponse is the envelope every JSON endpoint returns
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// SuccessResponse represents a bare confirmation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewMessageResponse wraps data with a human-readable message
func NewMessageResponse(data interface{}, message string) APIResponse {
	resp := NewSuccessResponse(data)
	resp.Message = message
	return resp
}

// ToggleResponse reports the outcome of a toggle operation
type ToggleResponse struct {
	Result string `json:"result" example:"added" enums:"added,removed"`
}
