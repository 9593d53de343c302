package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hearthsplit/household_manager_app/internal/adapters/blob/drive"
	"github.com/hearthsplit/household_manager_app/internal/adapters/cache"
	"github.com/hearthsplit/household_manager_app/internal/adapters/database/pgsql"
	"github.com/hearthsplit/household_manager_app/internal/adapters/notify/amqp"
	"github.com/hearthsplit/household_manager_app/internal/adapters/notify/lognotifier"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/core/services"
	"github.com/hearthsplit/household_manager_app/internal/handlers"
	"github.com/hearthsplit/household_manager_app/internal/middleware"
	"github.com/hearthsplit/household_manager_app/internal/platform/config"
	"github.com/hearthsplit/household_manager_app/pkg/database"
)

// @title HMA Backend API
// @version 1.0
// @description Household expense splitting and settlement API.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	notifier, closeNotifier := buildNotifier(cfg, logger)
	defer closeNotifier()

	receipts, err := drive.NewReceiptStore(ctx, cfg.DriveFolderID)
	if err != nil {
		logger.Error("Failed to initialize receipt store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	repos.DebtRepo = cache.NewCachedDebtRepository(repos.DebtRepo, cfg.CacheTTL)
	repos.ArchiveRepo = cache.NewCachedArchiveRepository(repos.ArchiveRepo, cfg.CacheTTL)

	container := services.NewServiceContainer(cfg, repos, notifier, receipts)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildNotifier picks the AMQP publisher when a broker is configured and the
// log-only fallback otherwise. The returned closer is always safe to defer.
func buildNotifier(cfg *config.Config, logger *slog.Logger) (portssvc.Notifier, func()) {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set, settlement events will only be logged")
		return lognotifier.New(), func() {}
	}

	n, err := amqp.NewNotifier(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("AMQP notifier connected", slog.String("exchange", cfg.AMQPExchange))
	return n, func() {
		if err := n.Close(); err != nil {
			logger.Error("Error closing AMQP notifier", slog.String("error", err.Error()))
		}
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsCfg.MaxAge = 12 * time.Hour
	if cfg.FrontendBaseURL != "" {
		corsCfg.AllowOrigins = []string{cfg.FrontendBaseURL}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	return corsCfg
}
