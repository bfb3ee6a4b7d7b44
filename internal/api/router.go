package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/clockio/timetrack-system/docs"
	"github.com/clockio/timetrack-system/internal/api/handler"
	"github.com/clockio/timetrack-system/internal/api/middleware"
	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/service"
	"github.com/clockio/timetrack-system/internal/infrastructure/crm"
	mongodb "github.com/clockio/timetrack-system/internal/infrastructure/db/mongo"
	redisdb "github.com/clockio/timetrack-system/internal/infrastructure/db/redis"
	"github.com/clockio/timetrack-system/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("timetrack"))

	// --- Dependencies ---
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn().Str("timezone", cfg.Timezone).Msg("unknown timezone, falling back to UTC")
		loc = time.UTC
	}

	userRepo := mongodb.NewUserRepository(db)
	credRepo := mongodb.NewCredentialRepository(db)
	timeLogRepo := mongodb.NewTimeLogRepository(db)
	scheduleRepo := mongodb.NewScheduleRepository(db)

	rosterClient := crm.NewClient(crm.Config{
		BaseURL:       cfg.CRM.BaseURL,
		LegacyBaseURL: cfg.CRM.LegacyBaseURL,
		Timeout:       cfg.CRM.Timeout,
	}, log)

	autoCloseGate := redisdb.NewAutoCloseGate(rdb, cfg.TenantID)

	syncService := service.NewSyncService(userRepo, credRepo, rosterClient, log)
	directoryService := service.NewDirectoryService(userRepo, log)
	timeLogService := service.NewTimeLogService(timeLogRepo, autoCloseGate, loc, log)
	scheduleService := service.NewWorkScheduleService(scheduleRepo, log)
	reportService := service.NewReportService(timeLogRepo, log)

	syncHandler := handler.NewSyncHandler(syncService)
	userHandler := handler.NewUserHandler(directoryService)
	timeLogHandler := handler.NewTimeLogHandler(timeLogService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	reportHandler := handler.NewReportHandler(reportService)

	session := middleware.Session(cfg.JWTSecret)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	// --- Identity sync ---
	e.POST("/v1/sync", syncHandler.Run, session, adminOnly)
	e.GET("/v1/sync/status", syncHandler.Status, session)

	// --- Directory ---
	e.GET("/v1/users", userHandler.List, session)
	e.POST("/v1/users/presence", userHandler.Presence, session)
	e.POST("/v1/users/owner", userHandler.TransferOwnership, session, adminOnly)

	// --- Time logs ---
	e.POST("/v1/check-in", timeLogHandler.CheckIn, session)
	e.POST("/v1/check-out", timeLogHandler.CheckOut, session)
	e.GET("/v1/logs", timeLogHandler.List, session)
	e.PUT("/v1/logs/:id", timeLogHandler.Update, session, adminOnly)
	e.DELETE("/v1/logs/:id", timeLogHandler.Delete, session, adminOnly)

	// --- Schedules & reports ---
	e.GET("/v1/schedules", scheduleHandler.List, session)
	e.POST("/v1/schedules", scheduleHandler.Save, session)
	e.GET("/v1/reports/monthly", reportHandler.Monthly, session, adminOnly)

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
