package service

import (
	"context"

	"taskquest/internal/domain"
)

// Dashboard is the landing view: account summary, today's tasks and the catalog.
type Dashboard struct {
	User            *domain.User                        `json:"user"`
	Tasks           []*domain.Task                      `json:"tasks"`
	PredefinedTasks map[string][]*domain.PredefinedTask `json:"predefined_tasks"`
	Settings        *domain.Settings                    `json:"settings"`
}

type DashboardService struct {
	ledger   *LedgerService
	tasks    *TaskService
	catalog  *CatalogService
	settings *SettingsService
}

func NewDashboardService(ledger *LedgerService, tasks *TaskService, catalog *CatalogService, settings *SettingsService) *DashboardService {
	return &DashboardService{ledger: ledger, tasks: tasks, catalog: catalog, settings: settings}
}

func (s *DashboardService) Load(ctx context.Context, id domain.Identity) (*Dashboard, error) {
	user, err := s.ledger.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListToday(ctx, id)
	if err != nil {
		return nil, err
	}
	grouped, err := s.catalog.Grouped(ctx)
	if err != nil {
		return nil, err
	}
	st, err := s.settings.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return &Dashboard{User: user, Tasks: tasks, PredefinedTasks: grouped, Settings: st}, nil
}
