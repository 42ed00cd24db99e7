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
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sekolahku/backoffice-api/api/swagger"
	"github.com/sekolahku/backoffice-api/internal/handler"
	"github.com/sekolahku/backoffice-api/internal/middleware"
	"github.com/sekolahku/backoffice-api/internal/repository"
	"github.com/sekolahku/backoffice-api/internal/service"
	"github.com/sekolahku/backoffice-api/pkg/cache"
	"github.com/sekolahku/backoffice-api/pkg/config"
	"github.com/sekolahku/backoffice-api/pkg/database"
	"github.com/sekolahku/backoffice-api/pkg/jobs"
	"github.com/sekolahku/backoffice-api/pkg/logger"
	corsmiddleware "github.com/sekolahku/backoffice-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sekolahku/backoffice-api/pkg/middleware/requestid"
	"github.com/sekolahku/backoffice-api/pkg/storage"
)

// @title Sekolahku Back-Office API
// @version 1.0.0
// @description Grade promotion, promotion fees, payroll and attendance rollup for the school back office.
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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		redisClient = nil
	}

	exportArchive, err := storage.NewLocalStorage(os.Getenv("EXPORT_DIR"))
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}

	// Repositories.
	studentRepo := repository.NewStudentRepository(db)
	yearRepo := repository.NewAcademicYearRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	templateRepo := repository.NewFeeTemplateRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	structureRepo := repository.NewSalaryStructureRepository(db)
	payrollRepo := repository.NewPayrollRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	promotionSvc := service.NewPromotionService(studentRepo, yearRepo, classroomRepo, promotionRepo, metricsSvc, logr)
	feeSvc := service.NewPromotionFeeService(cfg.Finance, studentRepo, yearRepo, templateRepo, feeRepo, metricsSvc, logr)
	payrollSvc := service.NewPayrollService(cfg.Payroll, payrollRepo, staffRepo, structureRepo, exportArchive, metricsSvc, logr)
	rollupSvc := service.NewAttendanceRollupService(scheduleRepo, studentRepo, attendanceRepo, metricsSvc, logr)
	studentSvc := service.NewStudentService(studentRepo, classroomRepo, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, yearRepo, attendanceRepo, cacheRepo, cfg.Dashboard.CacheTTL, logr)

	// Handlers.
	promotionHandler := handler.NewPromotionHandler(promotionSvc, feeSvc)
	feeHandler := handler.NewFeeHandler(feeSvc)
	payrollHandler := handler.NewPayrollHandler(payrollSvc)
	attendanceHandler := handler.NewAttendanceHandler(rollupSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
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
	r.Use(middleware.ActorIdentity(cfg.JWT.Secret))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		students := api.Group("/students")
		students.GET("", studentHandler.List)
		students.GET("/:id", studentHandler.Get)
		students.GET("/:id/assignments", studentHandler.ListAssignments)
		students.GET("/:id/fees", feeHandler.ListByStudent)
		students.POST("/:id/promote", promotionHandler.Promote)

		api.POST("/fees/promotion", feeHandler.Generate)

		payrolls := api.Group("/payrolls")
		payrolls.POST("/:id/generate", payrollHandler.Generate)
		payrolls.GET("/:id/items", payrollHandler.ListItems)
		payrolls.GET("/:id/export", payrollHandler.Export)

		api.POST("/attendance/rollup", attendanceHandler.Rollup)

		if cfg.Dashboard.Enabled {
			api.GET("/dashboard/summary", dashboardHandler.Summary)
		}
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rollupQueue := jobs.NewQueue("attendance-rollup", func(ctx context.Context, job jobs.Job) error {
		date, ok := job.Payload.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected rollup payload %T", job.Payload)
		}
		_, err := rollupSvc.Run(ctx, date)
		return err
	}, jobs.QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: time.Minute, Logger: logr})
	rollupQueue.Start(rootCtx)
	defer rollupQueue.Stop()

	if cfg.Rollup.Enabled {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.Rollup.Schedule, func() {
			// The morning run rolls up the previous calendar day.
			yesterday := time.Now().UTC().AddDate(0, 0, -1)
			if err := rollupQueue.Enqueue(jobs.Job{
				ID:      uuid.NewString(),
				Type:    "attendance.rollup",
				Payload: yesterday,
			}); err != nil {
				logr.Error("failed to enqueue scheduled rollup", zap.Error(err))
			}
		})
		if err != nil {
			logr.Fatal("invalid rollup schedule", zap.String("schedule", cfg.Rollup.Schedule), zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
		logr.Info("attendance rollup scheduled", zap.String("schedule", cfg.Rollup.Schedule))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
