package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/baresto/baresto-api/auth"
	"github.com/baresto/baresto-api/config"
	"github.com/baresto/baresto-api/middleware"
	"github.com/baresto/baresto-api/repositories"
	"github.com/baresto/baresto-api/repositories/postgres"
	"github.com/baresto/baresto-api/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Foods  repositories.FoodRepository
	Orders repositories.OrderRepository

	// Auth
	Tokens         *auth.TokenService
	authHandler    *auth.Handler
	AuthMiddleware *middleware.AuthMiddleware
	OwnershipGuard *middleware.OwnershipGuard
}

// AuthHandler returns the auth handler for route wiring (implements handlers.AuthDeps)
func (d *Dependencies) AuthHandler() *auth.Handler {
	return d.authHandler
}

// SQLDB returns the raw pool for health checks, or nil without a database
func (d *Dependencies) SQLDB() *sql.DB {
	if d.DB == nil {
		return nil
	}
	return d.DB.DB
}

// NewDependencies connects to the document store and wires up all
// application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories(deps.RepoFactory.NewRepositories())
	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesWithRepositories wires the application around existing
// repositories, with no database handle.
func NewDependenciesWithRepositories(cfg *config.Config, repos *repositories.Repositories, logger *zap.Logger) *Dependencies {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}
	deps.initRepositories(repos)
	deps.initAuth(cfg)
	return deps
}

// initDatabase opens the pool and creates the document tables
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := factory.InitSchema(ctx); err != nil {
		_ = factory.Close()
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

func (d *Dependencies) initRepositories(repos *repositories.Repositories) {
	d.Foods = repos.Foods
	d.Orders = repos.Orders
	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	d.OwnershipGuard = middleware.NewOwnershipGuard(cfg.Auth.RequireOwnerFilter, d.Logger)
	cookie := auth.CookieConfig{Secure: cfg.Auth.CookieSecure}

	if cfg.Auth.Secret == "" {
		d.Logger.Warn("signing secret not configured, token issuing disabled")
		// protected routes answer 401, access-token answers 500, logout still clears the cookie
		d.AuthMiddleware = middleware.NewAuthMiddleware(&rejectAllValidator{}, d.Logger)
		d.authHandler = auth.NewHandler(auth.NewTokenService("", cfg.Auth.TokenTTL), cookie, d.Logger)
		return
	}

	d.Tokens = auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	d.AuthMiddleware = middleware.NewAuthMiddleware(&tokenServiceAdapter{tokens: d.Tokens}, d.Logger)
	d.authHandler = auth.NewHandler(d.Tokens, cookie, d.Logger)
	d.Logger.Info("auth handler initialized",
		zap.Duration("token_ttl", d.Tokens.TTL()),
		zap.Bool("cookie_secure", cfg.Auth.CookieSecure),
		zap.Bool("require_owner_filter", cfg.Auth.RequireOwnerFilter))
}

// tokenServiceAdapter adapts auth.TokenService to middleware.TokenValidator
type tokenServiceAdapter struct {
	tokens *auth.TokenService
}

func (a *tokenServiceAdapter) ValidateToken(_ context.Context, token string) (*middleware.Claims, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, services.ErrInvalidToken.WithCause(err)
	}
	return &middleware.Claims{
		Email:     claims.Email,
		Payload:   claims.Payload,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// rejectAllValidator rejects all tokens (used when no signing secret is set)
type rejectAllValidator struct{}

func (*rejectAllValidator) ValidateToken(context.Context, string) (*middleware.Claims, error) {
	return nil, errors.New("authentication not configured")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
		d.DB = nil
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
