package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/arjun/loanflow/internal/app/controllers"
	appMigrations "github.com/arjun/loanflow/internal/app/migrations"
	appRepos "github.com/arjun/loanflow/internal/app/repositories"
	appRoutes "github.com/arjun/loanflow/internal/app/routes"
	appServices "github.com/arjun/loanflow/internal/app/services"
	"github.com/arjun/loanflow/internal/config"
	"github.com/arjun/loanflow/internal/db"
	appMiddleware "github.com/arjun/loanflow/internal/middleware"
	pkgAuth "github.com/arjun/loanflow/internal/pkg/auth"
	"github.com/arjun/loanflow/internal/pkg/logger"
	"github.com/arjun/loanflow/internal/pkg/metrics"
	"github.com/arjun/loanflow/internal/pkg/riskengine"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	ApplicationService    appServices.ApplicationService
	AuthService           appServices.AuthService
	ApplicationController *appControllers.ApplicationController
	AuthController        *appControllers.AuthController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	ScoringClient         riskengine.Client
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Auth.JWTSecret,
		TokenExpiry: cfg.GetTokenExpiration(),
		TokenIssuer: cfg.Auth.Issuer,
	})

	deps.ScoringClient = riskengine.NewHTTPClient(cfg.GetScoringURL(), cfg.GetScoringTimeout(), lgr)

	deps.ApplicationService = appServices.NewApplicationService(
		deps.Repos.ApplicationRepository,
		deps.ScoringClient,
		lgr,
	)
	deps.AuthService = appServices.NewAuthService(
		appServices.BankerCredentials{
			Email:        cfg.Auth.BankerEmail,
			PasswordHash: cfg.Auth.BankerPasswordHash,
		},
		deps.JWTService,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService)
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), metrics.Middleware())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ApplicationController,
		deps.AuthMiddleware,
	)

	return router
}
