package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/interfaces/http/dto"
	"github.com/servicehub/admin/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetTenantID(t *testing.T) {
	tenantID := uuid.New()

	t.Run("resolved", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "")
		c.Set(middleware.TenantIDKey, tenantID.String())
		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, tenantID, got)
	})

	t.Run("missing answers 400", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(http.MethodGet, "")
		_, ok := h.tenantOrAbort(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOptionalUserID(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "")
	assert.Nil(t, optionalUserID(c))

	userID := uuid.New()
	c.Set(middleware.JWTUserIDKey, userID.String())
	got := optionalUserID(c)
	require.NotNil(t, got)
	assert.Equal(t, userID, *got)
}

func TestBaseHandler_UUIDParam(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "")
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	_, ok := h.uuidParam(c, "id", "invoice")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Invalid invoice ID format", resp.Error.Message)
}

func TestBaseHandler_BindOptionalJSON(t *testing.T) {
	type payload struct {
		Reason string `json:"reason" binding:"max=5"`
	}
	h := &BaseHandler{}

	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCode string
	}{
		{name: "no body", body: "", wantOK: true},
		{name: "valid", body: `{"reason":"late"}`, wantOK: true},
		{name: "invalid field", body: `{"reason":"far too long"}`, wantCode: dto.ErrCodeValidation},
		{name: "malformed", body: `{"reason":`, wantCode: dto.ErrCodeInvalidJSON},
		{name: "wrong type", body: `{"reason":12}`, wantCode: dto.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, tt.body)
			var p payload
			ok := h.BindOptionalJSON(c, &p)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "")

	h.SuccessWithMeta(c, []string{"a", "b"}, 45, 0, 500)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 100, resp.Meta.PageSize)
	assert.Equal(t, 1, resp.Meta.TotalPages)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NewDomainError("NOT_FOUND", "missing"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"suffix not found", shared.NewDomainError("TASK_NOT_FOUND", "missing"), http.StatusNotFound, "TASK_NOT_FOUND"},
		{"business rule", shared.NewDomainError("SCORE_TOO_LOW", "no"), http.StatusUnprocessableEntity, "SCORE_TOO_LOW"},
		{"insufficient balance", shared.NewDomainError("INSUFFICIENT_BALANCE", "no"), http.StatusUnprocessableEntity, dto.ErrCodeInsufficientBalance},
		{"duplicate request", shared.NewDomainError("DUPLICATE_REQUEST", "again"), http.StatusConflict, dto.ErrCodeDuplicateRequest},
		{"conflict", shared.NewDomainError("WALLET_NOT_EMPTY", "busy"), http.StatusConflict, dto.ErrCodeConflict},
		{"locked", shared.NewDomainError("ACCOUNT_LOCKED", "locked"), http.StatusLocked, dto.ErrCodeAccountLocked},
		{"disabled subsystem", shared.NewDomainError("PRINTING_DISABLED", "off"), http.StatusServiceUnavailable, dto.ErrCodeUnavailable},
		{"wrapped domain error", fmt.Errorf("saving: %w", shared.NewDomainError("INVALID_STATE", "closed")), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, dto.ErrCodeUnavailable},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "")
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotContains(t, resp.Error.Message, "disk on fire")
		})
	}
}
