package dto

import "time"

// APIResponse is the envelope of every successful response.
type APIResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewAPIResponse builds an envelope stamped with the current time.
func NewAPIResponse(status int, message string, data any) APIResponse {
	return APIResponse{Status: status, Message: message, Timestamp: time.Now(), Data: data}
}

// ErrorResponse is the envelope of every failed response.
type ErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Path      string            `json:"path"`
}

// HealthDTO reports that the service is up.
type HealthDTO struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
