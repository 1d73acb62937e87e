package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "servicehub-admin", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "servicehub", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "memory", cfg.Idempotency.Backend)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.Equal(t, "stub", cfg.Storage.Backend)
		assert.True(t, cfg.IsDevelopment())
	})

	t.Run("applies the default price table", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 10.0, cfg.Pricing.QualificationFeePct)
		assert.Equal(t, 15.0, cfg.Pricing.TaxPct)
		assert.Equal(t, 8.0, cfg.Pricing.OperationalFeePct)
	})

	t.Run("loads values from environment variables with HUB prefix", func(t *testing.T) {
		t.Setenv("HUB_APP_NAME", "test-app")
		t.Setenv("HUB_APP_ENV", "testing")
		t.Setenv("HUB_APP_PORT", "9000")
		t.Setenv("HUB_DATABASE_DRIVER", "sqlite")
		t.Setenv("HUB_DATABASE_PATH", ":memory:")
		t.Setenv("HUB_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("HUB_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("HUB_PRICING_TAX_PCT", "12.5")
		t.Setenv("HUB_IDEMPOTENCY_BACKEND", "redis")
		t.Setenv("HUB_IDEMPOTENCY_TTL", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, ":memory:", cfg.Database.DSN())
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 12.5, cfg.Pricing.TaxPct)
		assert.Equal(t, "redis", cfg.Idempotency.Backend)
		assert.Equal(t, time.Hour, cfg.Idempotency.TTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("HUB_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("HUB_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		t.Setenv("HUB_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		t.Setenv("HUB_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("rejects unknown idempotency backend", func(t *testing.T) {
		t.Setenv("HUB_IDEMPOTENCY_BACKEND", "memcached")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "idempotency.backend")
	})

	t.Run("rejects percentages above 100", func(t *testing.T) {
		t.Setenv("HUB_PRICING_OPERATIONAL_FEE_PCT", "150")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pricing.operational_fee_pct")
	})

	t.Run("stripe is off by default with usd limits", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.False(t, cfg.Stripe.Enabled)
		assert.Equal(t, "usd", cfg.Stripe.Currency)
		assert.Equal(t, 10.0, cfg.Stripe.MinTopUp)
		assert.Equal(t, 10000.0, cfg.Stripe.MaxTopUp)
	})

	t.Run("enabled stripe needs both secrets", func(t *testing.T) {
		t.Setenv("HUB_STRIPE_ENABLED", "true")
		t.Setenv("HUB_STRIPE_SECRET_KEY", "sk_test_123")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stripe.webhook_secret")

		t.Setenv("HUB_STRIPE_WEBHOOK_SECRET", "whsec_abc")
		t.Setenv("HUB_STRIPE_CURRENCY", "EUR")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "eur", cfg.Stripe.Currency)
	})

	t.Run("rejects top-up limits in the wrong order", func(t *testing.T) {
		t.Setenv("HUB_STRIPE_ENABLED", "true")
		t.Setenv("HUB_STRIPE_SECRET_KEY", "sk_test_123")
		t.Setenv("HUB_STRIPE_WEBHOOK_SECRET", "whsec_abc")
		t.Setenv("HUB_STRIPE_MIN_TOP_UP", "500")
		t.Setenv("HUB_STRIPE_MAX_TOP_UP", "100")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stripe.min_top_up")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		t.Setenv("HUB_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("HUB_APP_ENV", "production")
		t.Setenv("HUB_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("HUB_DATABASE_PASSWORD", "secure-password")
		t.Setenv("HUB_DATABASE_SSLMODE", "require")
		t.Setenv("HUB_SWAGGER_ENABLED", "false")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("HUB_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("HUB_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("HUB_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("HUB_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("refuses sqlite in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("HUB_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sqlite in production")
	})

	t.Run("refuses swagger in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("HUB_SWAGGER_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger must be disabled")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
		assert.False(t, cfg.IsDevelopment())
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hub.toml")
	content := `
[app]
name = "from-file"

[pricing]
qualification_fee_pct = 5
tax_pct = 20

[storage]
backend = "s3"
bucket = "attachments"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.App.Name)
	assert.Equal(t, 5.0, cfg.Pricing.QualificationFeePct)
	assert.Equal(t, 20.0, cfg.Pricing.TaxPct)
	assert.Equal(t, 8.0, cfg.Pricing.OperationalFeePct)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, "attachments", cfg.Storage.Bucket)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("sqlite uses the file path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: "sqlite", Path: "/tmp/hub.db"}
		assert.Equal(t, "/tmp/hub.db", cfg.DSN())
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
