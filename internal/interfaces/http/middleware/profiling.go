package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/servicehub/admin/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled   bool
	SkipPaths []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/health", "/api/v1/health"},
	}
}

// Profiling tags CPU samples taken while serving a request with Pyroscope labels:
// the route pattern, the resource ("/api/v1/billing/invoices/:id" -> "billing")
// and the tenant. Place it after the tenant middleware.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if skipPath(c.Request.URL.Path, cfg.SkipPaths, []string{"/swagger"}) {
			c.Next()
			return
		}

		labels := map[string]string{
			telemetry.ProfilingLabelRoute:     c.FullPath(),
			telemetry.ProfilingLabelOperation: resourceFromRoute(c.FullPath()),
			telemetry.ProfilingLabelTenantID:  GetTenantID(c),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first route segment after the api version.
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

// isVersionSegment checks if a path segment is an API version (v1, v2, etc.)
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
