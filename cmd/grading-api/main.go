package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusgrid/grading-api/api/swagger"
	"github.com/campusgrid/grading-api/internal/grading"
	"github.com/campusgrid/grading-api/internal/handler"
	"github.com/campusgrid/grading-api/internal/middleware"
	"github.com/campusgrid/grading-api/internal/repository"
	"github.com/campusgrid/grading-api/internal/service"
	"github.com/campusgrid/grading-api/pkg/cache"
	"github.com/campusgrid/grading-api/pkg/config"
	"github.com/campusgrid/grading-api/pkg/database"
	"github.com/campusgrid/grading-api/pkg/jobs"
	"github.com/campusgrid/grading-api/pkg/logger"
	corsmiddleware "github.com/campusgrid/grading-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusgrid/grading-api/pkg/middleware/requestid"
)

// @title CampusGrid Grading API
// @version 1.0.0
// @description Automated grading, manual review and final grade aggregation
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	validate := validator.New()

	gradingRepo := repository.NewGradingRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	scaleRepo := repository.NewScaleRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	metricsSvc := service.NewMetricsService()
	grader := grading.NewGrader(grading.Config{DefaultSimilarityThreshold: cfg.Grading.DefaultSimilarityThreshold})

	aggregationSvc := service.NewAggregationService(categoryRepo, submissionRepo, enrollmentRepo, scaleRepo, cacheRepo, cfg.Cache.FinalGradeTTL, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recalcSvc *service.RecalcService
	if cfg.Recalc.Enabled {
		recalcSvc = service.NewRecalcService(categoryRepo, aggregationSvc, metricsSvc, jobs.QueueConfig{
			Workers:    cfg.Recalc.Workers,
			BufferSize: cfg.Recalc.BufferSize,
			MaxRetries: cfg.Recalc.MaxRetries,
			RetryDelay: cfg.Recalc.RetryDelay,
		}, logr)
		recalcSvc.Start(ctx)
		defer recalcSvc.Stop()
	}

	gradingSvc := service.NewGradingService(submissionRepo, gradingRepo, grader, recalcSvc, metricsSvc, validate, logr)
	exportSvc := service.NewExportService(aggregationSvc, logr)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)

	gradingHandler := handler.NewGradingHandler(gradingSvc)
	finalGradeHandler := handler.NewFinalGradeHandler(aggregationSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

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
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenSvc))
	{
		api.POST("/submissions/:submissionId/grade", gradingHandler.GradeSubmission)
		api.POST("/responses/:responseId/grade", gradingHandler.GradeResponse)
		api.GET("/courses/:courseId/students/:studentId/final-grade", finalGradeHandler.Get)
		api.POST("/courses/:courseId/students/:studentId/final-grade", finalGradeHandler.Calculate)
		api.GET("/courses/:courseId/students/:studentId/final-grade/export", finalGradeHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
