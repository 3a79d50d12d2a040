package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskquest/internal/config"
	"taskquest/internal/db"
	httpServer "taskquest/internal/http"
	"taskquest/internal/http/handlers"
	"taskquest/internal/http/middleware"
	"taskquest/internal/lock"
	"taskquest/internal/logger"
	"taskquest/internal/scheduler"
	"taskquest/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, File: cfg.LogFile})

	store := db.OpenStore(cfg)
	defer store.Close()

	rdb := middleware.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	var locker lock.Locker = lock.NewLocalLocker()
	if rdb != nil {
		defer rdb.Close()
		locker = lock.NewFallbackLocker(lock.NewRedisLocker(rdb), locker)
	}

	clock := service.NewClock(cfg.Location)
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	h := handlers.NewHandler(store, locker, clock, tokens)

	if cfg.SeedCatalog {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := h.Catalog.Seed(ctx); err != nil {
			logger.Error("catalog seed failed", "error", err)
		}
		cancel()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	// CORS for a frontend served from a different origin
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Job-Token", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Handler:  h,
		DB:       store,
		Redis:    rdb,
		Version:  version,
		JobToken: cfg.JobToken,
	}, cfg)

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched = startScheduler(cfg, h.Jobs)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "driver", cfg.DBDriver, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func startScheduler(cfg *config.Config, jobs *service.DailyJobs) *scheduler.Scheduler {
	sched := scheduler.New(cfg.Location)

	runJob := func(name string, fn func(ctx context.Context) (*service.JobResult, error)) func() {
		return func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			if _, err := fn(ctx); err != nil {
				logger.Error("scheduled job failed", "job", name, "error", err)
			}
		}
	}

	if _, err := sched.ScheduleDaily(cfg.RefreshAt, runJob("recurrence", jobs.Recurrence.Run)); err != nil {
		logger.Fatal("invalid REFRESH_AT", "value", cfg.RefreshAt, "error", err)
	}
	if _, err := sched.ScheduleDaily(cfg.PenaltyAt, runJob("penalty", jobs.Penalty.Run)); err != nil {
		logger.Fatal("invalid PENALTY_AT", "value", cfg.PenaltyAt, "error", err)
	}

	sched.Start()
	logger.Info("scheduler started", "refresh_at", cfg.RefreshAt, "penalty_at", cfg.PenaltyAt, "tz", cfg.Location.String())
	return sched
}
