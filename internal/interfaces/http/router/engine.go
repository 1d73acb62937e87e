package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/servicehub/admin/internal/infrastructure/auth"
	"github.com/servicehub/admin/internal/infrastructure/config"
	"github.com/servicehub/admin/internal/infrastructure/logger"
	"github.com/servicehub/admin/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Options configures the engine built by NewEngine
type Options struct {
	Logger      *zap.Logger
	JWTService  *auth.JWTService
	Revocations middleware.RevocationChecker
	HTTP        config.HTTPConfig
	Swagger     config.SwaggerConfig
	// DefaultTenantID serves single-tenant deployments whose clients send no tenant
	DefaultTenantID string
	Tracing         middleware.TracingConfig
	Profiling       bool
	// Meter enables HTTP metrics when set
	Meter metric.Meter
}

// publicPaths answer without a token or a tenant
var publicPaths = []string{"/health", "/api/v1/health", "/api/v1/system/info"}

// tenantlessPaths resolve their tenant elsewhere: refresh reads it from the refresh token
var tenantlessPaths = append([]string{"/api/v1/auth/refresh"}, publicPaths...)

// NewEngine builds the gin engine of the admin API with its full middleware
// chain, the health and Swagger endpoints and every domain route.
func NewEngine(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(opts.Tracing))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(opts.HTTP)))
	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}
	engine.Use(middleware.Timeout(opts.HTTP.RequestTimeout))
	engine.Use(middleware.HTTPMetrics(opts.Meter, log))

	engine.GET("/health", h.System.Health)
	engine.GET("/api/v1/health", h.System.Health)
	// Stripe authenticates with its signature header, not a bearer token
	if h.TopUp != nil {
		engine.POST("/webhooks/stripe", h.TopUp.StripeWebhook)
	}

	jwtCfg := middleware.DefaultJWTConfig(opts.JWTService)
	jwtCfg.SkipPaths = append(jwtCfg.SkipPaths, "/api/v1/system/info")
	jwtCfg.Revocations = opts.Revocations
	jwtCfg.Logger = log
	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(jwtCfg)

	// the API chain lets /swagger through, so the docs get their own check
	docsCfg := jwtCfg
	docsCfg.SkipPaths, docsCfg.SkipPathPrefixes = nil, nil
	docsAuth := middleware.JWTAuthMiddlewareWithConfig(docsCfg)

	swaggerCfg := middleware.SwaggerConfig{
		Enabled:     opts.Swagger.Enabled,
		RequireAuth: opts.Swagger.RequireAuth,
		AllowedIPs:  opts.Swagger.AllowedIPs,
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(swaggerCfg, docsAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var authLimit gin.HandlerFunc
	if opts.HTTP.AuthRateLimit > 0 {
		authLimit = middleware.RateLimit(middleware.NewRateLimiter(opts.HTTP.AuthRateLimit, time.Minute))
		log.Info("Auth rate limiting enabled", zap.Int("requests_per_minute", opts.HTTP.AuthRateLimit))
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(
		jwtAuth,
		middleware.TenantMiddleware(middleware.TenantMiddlewareConfig{
			HeaderEnabled:   true,
			DefaultTenantID: opts.DefaultTenantID,
			SkipPaths:       tenantlessPaths,
			Logger:          log,
		}),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		middleware.Profiling(middleware.ProfilingConfig{
			Enabled:   opts.Profiling,
			SkipPaths: publicPaths,
		}),
	)
	for _, group := range DomainGroups(h, authLimit) {
		r.Register(group)
	}
	r.Setup()

	return engine
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
