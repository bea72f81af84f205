package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tot-logger/visit-log-api/api/swagger"
	"github.com/tot-logger/visit-log-api/internal/handler"
	"github.com/tot-logger/visit-log-api/internal/middleware"
	"github.com/tot-logger/visit-log-api/internal/repository"
	"github.com/tot-logger/visit-log-api/internal/service"
	"github.com/tot-logger/visit-log-api/pkg/cache"
	"github.com/tot-logger/visit-log-api/pkg/config"
	"github.com/tot-logger/visit-log-api/pkg/database"
	"github.com/tot-logger/visit-log-api/pkg/logger"
	corsmiddleware "github.com/tot-logger/visit-log-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tot-logger/visit-log-api/pkg/middleware/requestid"
)

// @title Visit Log API
// @version 1.0.0
// @description Daily visit logging and recommendation service for a themed walk-through attraction
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	logRepo := repository.NewLogRepository(db)
	reportRepo := repository.NewReportRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.Session.TTL)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	schedules, err := scheduleRepo.ListAll(startupCtx)
	cancelStartup()
	if err != nil {
		logr.Sugar().Fatalw("failed to load special program schedules", "error", err)
	}

	audience := ""
	if len(cfg.Auth.Audience) > 0 {
		audience = cfg.Auth.Audience[0]
	}
	authSvc := service.NewAuthService(service.AuthConfig{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		Audience: audience,
	}, logr)

	scheduleSvc := service.NewScheduleService(schedules, cfg.Attraction.FallbackMonthEnd)
	recommendSvc := service.NewRecommendationService(scheduleSvc, cfg.Attraction.CautionVehicle)
	notifierSvc := service.NewNotifierService(redisClient, cfg.Realtime.ChannelPrefix, logr)
	metricsSvc := service.NewMetricsService()

	reportSvc := service.NewReportService(reportRepo, logRepo, cacheRepo, notifierSvc,
		cfg.Reports.CacheTTL, cfg.Reports.WorkerConcurrency, cfg.Reports.WorkerRetries, logr)
	logSvc := service.NewLogService(logRepo, reportSvc, notifierSvc, logr)
	sessionSvc := service.NewSessionService(logRepo, sessionRepo, scheduleSvc, recommendSvc, reportSvc, notifierSvc, logr)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	reportSvc.StartWorkers(workerCtx)
	defer func() {
		cancelWorkers()
		reportSvc.StopWorkers()
	}()

	validate := validator.New()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, authSvc, handler.Handlers{
		Session: handler.NewSessionHandler(sessionSvc, validate, metricsSvc),
		Logs:    handler.NewLogHandler(logSvc, notifierSvc, recommendSvc, metricsSvc),
		Reports: handler.NewReportHandler(reportSvc, validate, metricsSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
