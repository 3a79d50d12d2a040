package handlers

import (
	"taskquest/internal/domain"
	"taskquest/internal/http/middleware"
	"taskquest/internal/lock"
	"taskquest/internal/repository"
	"taskquest/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Auth      *service.AuthService
	Tasks     *service.TaskService
	Ledger    *service.LedgerService
	Catalog   *service.CatalogService
	Settings  *service.SettingsService
	Dashboard *service.DashboardService
	Jobs      *service.DailyJobs
}

func NewHandler(store repository.Store, locker lock.Locker, clock service.Clock, tokens *service.TokenManager) *Handler {
	tasks := service.NewTaskService(store, clock)
	ledger := service.NewLedgerService(store, clock)
	catalog := service.NewCatalogService(store)
	settings := service.NewSettingsService(store)

	return &Handler{
		Auth:      service.NewAuthService(store, tokens),
		Tasks:     tasks,
		Ledger:    ledger,
		Catalog:   catalog,
		Settings:  settings,
		Dashboard: service.NewDashboardService(ledger, tasks, catalog, settings),
		Jobs: &service.DailyJobs{
			Recurrence: service.NewRecurrenceEngine(store, locker, clock),
			Penalty:    service.NewPenaltyEngine(store, locker, clock),
		},
	}
}

// getIdentity reads the caller set by the JWT middleware.
func getIdentity(c *gin.Context) (domain.Identity, bool) {
	return middleware.IdentityFrom(c)
}
