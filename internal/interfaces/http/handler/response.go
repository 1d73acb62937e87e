package handler

import "github.com/servicehub/admin/internal/interfaces/http/dto"

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// MessageData is the payload of endpoints that only confirm an action
// @Description Confirmation message
type MessageData struct {
	Message string `json:"message" example:"Logged out successfully"`
}
