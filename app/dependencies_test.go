package app

import (
	"context"
	"testing"
	"time"

	"github.com/baresto/baresto-api/auth"
	"github.com/baresto/baresto-api/config"
	"github.com/baresto/baresto-api/repositories"
	"github.com/baresto/baresto-api/repositories/postgres"
	"github.com/baresto/baresto-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewDependencies(t *testing.T) {
	t.Run("successful initialization with all components", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig()
		logger := zaptest.NewLogger(t)

		if !isDatabaseAvailable(cfg) {
			t.Skip("database not available")
		}

		deps, err := NewDependencies(ctx, cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, deps)

		assert.NotNil(t, deps.DB)
		assert.NotNil(t, deps.SQLDB())
		assert.NotNil(t, deps.Foods)
		assert.NotNil(t, deps.Orders)
		assert.NotNil(t, deps.AuthHandler())

		assert.NoError(t, deps.Close(ctx))
		// second close is a no-op
		assert.NoError(t, deps.Close(ctx))
	})

	t.Run("database connection failure", func(t *testing.T) {
		cfg := testConfig()
		cfg.Database.Host = "127.0.0.1"
		cfg.Database.Port = 1

		deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize database")
	})
}

func TestNewDependenciesWithRepositories(t *testing.T) {
	t.Run("wires auth when secret is set", func(t *testing.T) {
		repos := &repositories.Repositories{}
		deps := NewDependenciesWithRepositories(testConfig(), repos, zap.NewNop())

		assert.Nil(t, deps.SQLDB())
		assert.NotNil(t, deps.Tokens)
		assert.NotNil(t, deps.AuthHandler())
		assert.NotNil(t, deps.AuthMiddleware)
		assert.NotNil(t, deps.OwnershipGuard)
		assert.Equal(t, time.Hour, deps.Tokens.TTL())
		assert.NoError(t, deps.Close(context.Background()))
	})

	t.Run("no secret disables issuing but keeps logout", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.Secret = ""

		deps := NewDependenciesWithRepositories(cfg, &repositories.Repositories{}, zap.NewNop())

		assert.Nil(t, deps.Tokens)
		assert.NotNil(t, deps.AuthHandler())
		assert.NotNil(t, deps.AuthMiddleware)
	})
}

func TestTokenServiceAdapter(t *testing.T) {
	tokens := auth.NewTokenService(testSecret, time.Hour)
	adapter := &tokenServiceAdapter{tokens: tokens}

	token, err := tokens.Issue(map[string]interface{}{"email": "u@x.com", "name": "U"})
	require.NoError(t, err)

	claims, err := adapter.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u@x.com", claims.Email)
	assert.Equal(t, map[string]interface{}{"email": "u@x.com", "name": "U"}, claims.Payload)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt))

	_, err = adapter.ValidateToken(context.Background(), token+"x")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	assert.True(t, services.IsUnauthorizedError(err))
}

func TestRejectAllValidator(t *testing.T) {
	claims, err := (&rejectAllValidator{}).ValidateToken(context.Background(), "anything")
	assert.Nil(t, claims)
	assert.Error(t, err)
}

// Test helpers

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            5000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "baresto",
			Password:        "baresto",
			Database:        "baresto_test",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Auth: config.AuthConfig{
			Secret:       testSecret,
			TokenTTL:     time.Hour,
			CookieSecure: true,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Catalog: config.CatalogConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
		Observability: config.ObservabilityConfig{
			LogLevel:    "debug",
			LogFormat:   "json",
			ServiceName: "baresto-api",
		},
	}
}

func isDatabaseAvailable(cfg *config.Config) bool {
	factory, err := postgres.NewRepositoryFactory(cfg, zap.NewNop())
	if err != nil {
		return false
	}
	_ = factory.Close()
	return true
}
