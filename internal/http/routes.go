package http

import (
	"context"
	"time"

	"taskquest/internal/config"
	"taskquest/internal/http/handlers"
	"taskquest/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// Deps are the collaborators the router needs besides the handler itself.
type Deps struct {
	Handler  *handlers.Handler
	DB       handlers.Pinger
	Redis    *redis.Client // optional
	Version  string
	JobToken string
}

func RegisterRoutes(r *gin.Engine, deps Deps, cfg *config.Config) {
	h := deps.Handler

	var redisPing handlers.Pinger
	if deps.Redis != nil {
		redisPing = handlers.PingFunc(func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		})
	}
	healthHandler := handlers.NewHealthHandler(deps.DB, redisPing, deps.Version)

	rl := middleware.NewRateLimiter(deps.Redis)
	apiRL := rl.ByIP("api", cfg.APIRateLimit, seconds(cfg.APIRateWindow))
	authRL := rl.ByIP("auth", cfg.AuthRateLimit, seconds(cfg.AuthRateWindow))
	userRL := rl.ByUser(cfg.UserRateLimit, seconds(cfg.UserRateWindow))
	jwt := middleware.JWT(h.Auth)
	jobs := middleware.JobToken(deps.JobToken)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/setup/predefined-tasks", jobs, h.SetupPredefinedTasks)

	api := r.Group("/api")
	api.Use(apiRL)

	// Auth
	api.POST("/auth/signup", authRL, h.Signup)
	api.POST("/auth/login", authRL, h.Login)

	// Catalog
	api.GET("/predefined-tasks", h.PredefinedTasks)

	// Batch jobs, triggered by cron or an operator
	api.POST("/penalties", jobs, h.ApplyPenalties)
	api.POST("/daily-tasks/refresh", jobs, h.RefreshDailyTasks)

	// Per-user routes
	user := api.Group("")
	user.Use(jwt, userRL)
	{
		user.GET("/dashboard", h.GetDashboard)

		user.GET("/tasks", h.ListTasks)
		user.POST("/tasks", h.CreateTask)
		user.DELETE("/tasks/:id", h.DeleteTask)
		user.POST("/tasks/:id/complete", h.CompleteTask)
		user.POST("/tasks/:id/toggle-daily", h.ToggleDaily)
		user.POST("/custom-task", h.SubmitCustomTask)

		user.GET("/settings", h.GetSettings)
		user.POST("/settings", h.SaveSettings)

		user.GET("/me/records", h.MyRecords)
		user.GET("/me/ledger", h.MyLedger)
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
