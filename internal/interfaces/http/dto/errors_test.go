package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeAccountLocked, http.StatusLocked},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeDuplicateRequest, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientBalance, http.StatusUnprocessableEntity},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"DUPLICATE_REQUEST", ErrCodeDuplicateRequest},
		{"INSUFFICIENT_BALANCE", ErrCodeInsufficientBalance},
		{"INVALID_CREDENTIALS", ErrCodeInvalidCredentials},
		{"PRINTING_DISABLED", ErrCodeUnavailable},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"SCORE_TOO_LOW", "SCORE_TOO_LOW"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainErrorHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, DomainErrorHTTPStatus("NOT_FOUND"))
	assert.Equal(t, http.StatusNotFound, DomainErrorHTTPStatus("ATTACHMENT_NOT_FOUND"))
	assert.Equal(t, http.StatusConflict, DomainErrorHTTPStatus("DUPLICATE_REQUEST"))
	assert.Equal(t, http.StatusUnauthorized, DomainErrorHTTPStatus("TOKEN_EXPIRED"))
	assert.Equal(t, http.StatusForbidden, DomainErrorHTTPStatus("ACCOUNT_DEACTIVATED"))
	assert.Equal(t, http.StatusServiceUnavailable, DomainErrorHTTPStatus("STORAGE_DISABLED"))
	assert.Equal(t, http.StatusServiceUnavailable, DomainErrorHTTPStatus("PAYMENTS_DISABLED"))
	assert.Equal(t, http.StatusUnprocessableEntity, DomainErrorHTTPStatus("CHECKLIST_INCOMPLETE"))
	assert.Equal(t, http.StatusUnprocessableEntity, DomainErrorHTTPStatus("INVALID_QUANTITY"))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 41, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	empty := NewSuccessResponseWithMeta([]string{}, 0, 0, 20)
	assert.Equal(t, 1, empty.Meta.Page)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}

func TestValidationErrorResponseJSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "name", Message: "This field is required"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errObj["code"])
	assert.Equal(t, "req-1", errObj["request_id"])
	details := errObj["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "name", details[0].(map[string]any)["field"])
	_, hasData := decoded["data"]
	assert.False(t, hasData)
}
