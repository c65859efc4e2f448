package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/attendance-tracker/api/swagger"
	"github.com/noah-isme/attendance-tracker/internal/handler"
	"github.com/noah-isme/attendance-tracker/internal/middleware"
	"github.com/noah-isme/attendance-tracker/internal/repository"
	"github.com/noah-isme/attendance-tracker/internal/service"
	"github.com/noah-isme/attendance-tracker/internal/store"
	"github.com/noah-isme/attendance-tracker/pkg/cache"
	"github.com/noah-isme/attendance-tracker/pkg/config"
	"github.com/noah-isme/attendance-tracker/pkg/database"
	"github.com/noah-isme/attendance-tracker/pkg/logger"
	corsmiddleware "github.com/noah-isme/attendance-tracker/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/attendance-tracker/pkg/middleware/requestid"
	"github.com/noah-isme/attendance-tracker/pkg/storage"
)

// @title Attendance Tracker API
// @version 1.0.0
// @description Single-user subject, schedule and attendance tracking
// @BasePath /
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

	st, err := buildStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init document store", "driver", cfg.Store.Driver, "error", err)
	}
	defer st.Close() //nolint:errcheck

	reportStorage, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init report storage", "error", err)
	}
	if removed, err := reportStorage.CleanupOlderThan(cfg.Reports.ResultTTL); err != nil {
		logr.Sugar().Warnw("report export cleanup failed", "error", err)
	} else if len(removed) > 0 {
		logr.Sugar().Infow("expired report exports removed", "count", len(removed))
	}

	metricsSvc := service.NewMetricsService()
	docs := repository.New(st, metricsSvc, logr)
	validate := validator.New()

	subjectSvc := service.NewSubjectService(docs, validate, logr)
	scheduleSvc := service.NewScheduleService(docs, validate, logr)
	attendanceSvc := service.NewAttendanceService(docs, validate, logr)
	statsSvc := service.NewStatsService(docs, logr)
	reportSvc := service.NewReportService(docs, reportStorage, validate, logr, nil, nil)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix),
		handler.NewSubjectHandler(subjectSvc),
		handler.NewScheduleHandler(scheduleSvc),
		handler.NewAttendanceHandler(attendanceSvc),
		handler.NewDashboardHandler(statsSvc),
		handler.NewReportHandler(reportSvc),
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func buildStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, cfg.Store.KeyPrefix), nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(db)
	default:
		return store.NewFileStore(cfg.Store.Dir)
	}
}

func registerRoutes(api *gin.RouterGroup,
	subjects *handler.SubjectHandler,
	schedule *handler.ScheduleHandler,
	attendance *handler.AttendanceHandler,
	dashboard *handler.DashboardHandler,
	reports *handler.ReportHandler,
) {
	api.GET("/subjects", subjects.List)
	api.POST("/subjects", subjects.Create)
	api.GET("/subjects/:id", subjects.Get)
	api.PUT("/subjects/:id", subjects.Update)
	api.DELETE("/subjects/:id", subjects.Delete)

	api.GET("/schedule", schedule.Week)
	api.GET("/schedule/day", schedule.Day)
	api.POST("/schedule/:day/entries", schedule.AddEntry)
	api.DELETE("/schedule/:day/entries/:id", schedule.RemoveEntry)

	api.GET("/attendance", attendance.History)
	api.POST("/attendance", attendance.Mark)
	api.POST("/attendance/extra", attendance.AddExtra)
	api.GET("/attendance/markable", schedule.Markable)
	api.DELETE("/attendance/:id", attendance.Delete)

	api.GET("/dashboard", dashboard.Dashboard)
	api.GET("/dashboard/summary", dashboard.Summary)

	api.GET("/reports", reports.List)
	api.POST("/reports/export", reports.Export)
}
