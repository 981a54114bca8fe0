package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/ledger_bridge/internal/adapters/xrpl"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/core/services"
	"github.com/SscSPs/ledger_bridge/internal/handlers"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/SscSPs/ledger_bridge/internal/platform/config"
	"github.com/SscSPs/ledger_bridge/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_bridge/internal/utils"
	"github.com/SscSPs/ledger_bridge/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Ledger Bridge API
// @version 1.0
// @description Submits ISO 20022 style payments to the XRP ledger and reads received payments back.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// hash-password prints the value for OPERATOR_PASSWORD_HASH and exits.
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hash, err := utils.HashPassword(os.Args[2])
		if err != nil {
			logger.Error("Failed to hash password", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := xrpl.RegisterValidations(v); err != nil {
			logger.Error("Failed to register validations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	client := xrpl.NewClient(cfg.Ledger.RPCURL, xrpl.WithTimeout(cfg.Ledger.RPCTimeout))
	listener := services.TransmissionListenerFunc(func(tx *domain.Transaction) {
		logger.Info("Transmission state changed",
			slog.String("transaction_id", tx.ID),
			slog.String("sender", tx.Sender.Address),
			slog.String("state", string(tx.State())))
	})
	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), client, xrpl.NewKeyResolver(), listener)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
	}))
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("ledger", cfg.Ledger.Family),
		slog.String("network", cfg.Ledger.Network))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", databaseURL)
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
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}
	if sourceErr, dbErr := m.Close(); sourceErr != nil {
		return sourceErr
	} else if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
