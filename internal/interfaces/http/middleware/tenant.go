package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/infrastructure/logger"
	"github.com/servicehub/admin/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Tenant context keys
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// HeaderEnabled allows X-Tenant-ID on requests without a JWT (login, refresh)
	HeaderEnabled bool
	// DefaultTenantID is used when neither JWT nor header names a tenant
	DefaultTenantID string
	// SkipPaths are paths that don't require tenant context
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultTenantConfig returns default tenant middleware configuration. Refresh
// is skipped because the refresh token carries its own tenant.
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		SkipPaths:     []string{"/health", "/api/v1/health", "/api/v1/auth/refresh"},
	}
}

// TenantMiddleware resolves the tenant of the request.
// Extraction order: JWT claims > X-Tenant-ID header > DefaultTenantID.
// An authenticated request always uses its JWT tenant, whatever the header says.
func TenantMiddleware(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if skipPath(c.Request.URL.Path, cfg.SkipPaths, nil) {
			c.Next()
			return
		}

		tenantID, source := GetJWTTenantID(c), "jwt"
		if tenantID == "" && cfg.HeaderEnabled {
			tenantID, source = c.GetHeader(TenantHeaderKey), "header"
		}
		if tenantID == "" {
			tenantID, source = cfg.DefaultTenantID, "default"
		}

		if tenantID == "" {
			respondTenantError(c, "Tenant identification required")
			return
		}
		if _, err := uuid.Parse(tenantID); err != nil {
			respondTenantError(c, "Invalid tenant ID format")
			return
		}

		c.Set(TenantIDKey, tenantID)
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID))

		cfg.Logger.Debug("Tenant identified",
			zap.String("tenant_id", tenantID),
			zap.String("source", source),
		)

		c.Next()
	}
}

func respondTenantError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeBadRequest, message, GetRequestID(c),
	))
}

// GetTenantID retrieves the resolved tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID retrieves the tenant ID as UUID from gin.Context
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(GetTenantID(c))
}
