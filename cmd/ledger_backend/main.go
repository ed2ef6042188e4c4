package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dual_ledger/internal/core/services"
	"github.com/SscSPs/dual_ledger/internal/dto"
	"github.com/SscSPs/dual_ledger/internal/handlers"
	"github.com/SscSPs/dual_ledger/internal/middleware"
	"github.com/SscSPs/dual_ledger/internal/platform/config"
	"github.com/SscSPs/dual_ledger/internal/repositories/database/memory"
	"github.com/SscSPs/dual_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/dual_ledger/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, cleanup, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("store", cfg.Store), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	mapping, err := config.LoadAccountMapping(cfg.AccountMappingFile)
	if err != nil {
		logger.Error("Failed to load account mapping", slog.String("path", cfg.AccountMappingFile), slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Account mapping loaded",
		slog.String("path", cfg.AccountMappingFile),
		slog.Int("operational_accounts", len(mapping.OperationalAccounts)))

	options := []services.ServiceOption{
		services.WithLockWait(cfg.LockWait),
		services.WithCloseWait(cfg.CloseWait),
	}
	if cfg.ReconcileOnClose {
		options = append(options, services.WithReconciliationPolicy(services.BalancedEntriesPolicy{}))
	}
	serviceContainer := services.NewServiceContainer(store, options...)

	if err := serviceContainer.Category.EnsureSystemCategories(context.Background()); err != nil {
		logger.Error("Failed to seed system categories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidations(v); err != nil {
			logger.Error("Failed to register validations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("value", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	ipLimiter := limiter.New(limitermemory.NewStore(), rate)

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RateLimit(ipLimiter),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, mapping)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.Store))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openStore builds the configured persistence backend and returns a function releasing it.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		database.ClosePgxPool(dbPool)
		return nil, nil, err
	}

	store := pgsql.NewStore(dbPool, pgsql.WithLockTimeout(cfg.DBLockTimeout))
	return store, func() { database.ClosePgxPool(dbPool) }, nil
}

// runMigrations applies every pending up migration.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))

	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
