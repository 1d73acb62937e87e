package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	partnerapp "github.com/servicehub/admin/internal/application/partner"
	"github.com/servicehub/admin/internal/infrastructure/auth"
	"github.com/servicehub/admin/internal/infrastructure/config"
	"github.com/servicehub/admin/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngineOptions() Options {
	return Options{
		JWTService: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-with-32-characters!",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "servicehub-test",
		}),
		HTTP: config.HTTPConfig{
			MaxBodySize:      1024,
			CORSAllowOrigins: []string{"https://admin.example.com"},
		},
	}
}

func newTestHandlers() Handlers {
	return Handlers{System: handler.NewSystemHandler("servicehub-admin", "test", nil)}
}

func TestNewEngine_PublicEndpoints(t *testing.T) {
	engine := NewEngine(newTestEngineOptions(), newTestHandlers())

	for _, path := range []string{"/health", "/api/v1/health", "/api/v1/system/info"} {
		w := serve(engine, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}
}

func TestNewEngine_RequiresToken(t *testing.T) {
	engine := NewEngine(newTestEngineOptions(), newTestHandlers())

	w := serve(engine, http.MethodGet, "/api/v1/projects")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")

	w = serve(engine, http.MethodGet, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewEngine_StripeWebhook(t *testing.T) {
	w := serve(NewEngine(newTestEngineOptions(), newTestHandlers()), http.MethodPost, "/webhooks/stripe")
	assert.Equal(t, http.StatusNotFound, w.Code)

	h := newTestHandlers()
	h.TopUp = handler.NewTopUpHandler(partnerapp.NewTopUpService(nil, nil, nil, nil, partnerapp.TopUpPolicy{}))
	engine := NewEngine(newTestEngineOptions(), h)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	// no bearer token needed; the service answers that payments are off
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNewEngine_BodyLimit(t *testing.T) {
	opts := newTestEngineOptions()
	jwtService := opts.JWTService
	engine := NewEngine(opts, newTestHandlers())

	pair, err := jwtService.GenerateTokenPair(auth.Subject{TenantID: uuid.New(), UserID: uuid.New(), Username: "admin"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader(strings.Repeat("x", 2048)))
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestNewEngine_Swagger(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		engine := NewEngine(newTestEngineOptions(), newTestHandlers())
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/swagger/index.html").Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		opts := newTestEngineOptions()
		opts.Swagger = config.SwaggerConfig{Enabled: true, RequireAuth: true}
		engine := NewEngine(opts, newTestHandlers())
		assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/swagger/index.html").Code)
	})

	t.Run("ip allow list", func(t *testing.T) {
		opts := newTestEngineOptions()
		opts.Swagger = config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}
		engine := NewEngine(opts, newTestHandlers())
		// httptest requests come from 192.0.2.1
		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/swagger/index.html").Code)
	})
}

func TestNewEngine_CORSPreflight(t *testing.T) {
	engine := NewEngine(newTestEngineOptions(), newTestHandlers())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/projects", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsConfig(t *testing.T) {
	cfg := corsConfig(config.HTTPConfig{
		CORSAllowOrigins: []string{"https://a.example.com"},
		CORSAllowMethods: []string{http.MethodGet},
	})

	assert.Equal(t, []string{"https://a.example.com"}, cfg.AllowOrigins)
	assert.Equal(t, []string{http.MethodGet}, cfg.AllowMethods)
	assert.NotEmpty(t, cfg.AllowHeaders)
}
