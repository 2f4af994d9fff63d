package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/blog-api/config"
	"github.com/upb/blog-api/middleware"
	"github.com/upb/blog-api/oidcauth"
	"github.com/upb/blog-api/repositories"
	"github.com/upb/blog-api/repositories/postgres"
	"github.com/upb/blog-api/services"
	"go.uber.org/zap"
)

// Startup failures. Each is fatal; the process exits before serving.
var (
	ErrStoreConnect   = errors.New("data store connection failed")
	ErrMigration      = errors.New("database migration failed")
	ErrValidatorSetup = errors.New("token validator setup failed")
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

	// Services
	Posts   *services.PostService
	Authors *services.AuthorService
	Users   *services.UserService

	// Auth; nil when AUTH_ENABLED is false
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
// ctx bounds background work such as JWKS refresh and should live as long
// as the server.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, err
	}

	deps.UseRepositories(deps.RepoFactory.NewRepositories())

	warnInsecureSettings(cfg, logger)

	authMiddleware, err := NewAuthMiddleware(ctx, cfg.Auth, logger)
	if err != nil {
		_ = deps.RepoFactory.Close()
		return nil, err
	}
	deps.AuthMiddleware = authMiddleware

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase opens the pool and applies pending migrations
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreConnect, err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if cfg.Database.Migrate {
		if err := d.DB.RunMigrations(ctx); err != nil {
			_ = factory.Close()
			return fmt.Errorf("%w: %v", ErrMigration, err)
		}
	}

	return nil
}

// UseRepositories builds the resource services on top of repos
func (d *Dependencies) UseRepositories(repos *repositories.Repositories) {
	d.Posts = services.NewPostService(repos.Posts, d.Logger)
	d.Authors = services.NewAuthorService(repos.Authors, d.Logger)
	d.Users = services.NewUserService(repos.Users, d.Logger)

	d.Logger.Info("repositories initialized")
}

// warnInsecureSettings flags configurations that leave a production deployment open
func warnInsecureSettings(cfg *config.Config, logger *zap.Logger) {
	if cfg.IsProduction() && !cfg.Auth.Enabled {
		logger.Error("authentication disabled in production",
			zap.String("environment", cfg.Environment))
	}
}

// NewAuthMiddleware builds the auth gate from configuration. It returns nil
// without error when authentication is disabled.
func NewAuthMiddleware(ctx context.Context, cfg config.AuthConfig, logger *zap.Logger) (*middleware.AuthMiddleware, error) {
	if !cfg.Enabled {
		logger.Warn("authentication disabled, all routes are public")
		return nil, nil
	}

	validator, err := oidcauth.NewValidator(ctx, oidcauth.Config{
		IssuerURL:       cfg.IssuerURL,
		JWKSURL:         cfg.JWKSURL,
		Algorithm:       cfg.Algorithm,
		RequireAudience: cfg.RequireAudience,
		Audience:        cfg.ExpectedAudience,
		Leeway:          cfg.Leeway,
		HTTPTimeout:     cfg.HTTPTimeout,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidatorSetup, err)
	}

	if !cfg.RequireAudience {
		logger.Warn("token audience is not validated; set AUTH_REQUIRE_AUDIENCE and AUTH_AUDIENCE to enforce it")
	}

	logger.Info("token validator initialized",
		zap.String("issuer", validator.Issuer()),
		zap.String("jwks_url", validator.JWKSURL()),
		zap.String("algorithm", validator.Algorithm()))

	return middleware.NewAuthMiddleware(&oidcTokenValidatorAdapter{validator: validator}, logger), nil
}

type claimsValidator interface {
	ValidateToken(ctx context.Context, token string) (*oidcauth.ParsedClaims, error)
}

// oidcTokenValidatorAdapter adapts oidcauth.Validator to middleware.TokenValidator
type oidcTokenValidatorAdapter struct {
	validator claimsValidator
}

func (a *oidcTokenValidatorAdapter) ValidateToken(ctx context.Context, token string) (*middleware.Claims, error) {
	parsed, err := a.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &middleware.Claims{
		Sub:   parsed.Subject,
		Email: parsed.Email,
	}, nil
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
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
