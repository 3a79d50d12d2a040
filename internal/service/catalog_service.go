package service

import (
	"context"
	"fmt"

	"taskquest/internal/catalog"
	"taskquest/internal/domain"
	"taskquest/internal/logger"
	"taskquest/internal/repository"
)

type CatalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

// Seed inserts the built-in catalog, skipping names that already exist, and
// returns how many entries were added.
func (s *CatalogService) Seed(ctx context.Context) (int, error) {
	entries, err := catalog.Seed()
	if err != nil {
		return 0, err
	}

	added := 0
	err = s.store.WithTx(ctx, func(q repository.Querier) error {
		for i := range entries {
			ok, err := q.InsertPredefinedTask(ctx, &entries[i])
			if err != nil {
				return fmt.Errorf("insert %q: %w", entries[i].Name, err)
			}
			if ok {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("catalog seeded", "added", added, "total", len(entries))
	return added, nil
}

func (s *CatalogService) List(ctx context.Context) ([]*domain.PredefinedTask, error) {
	tasks, err := s.store.ListPredefinedTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list predefined tasks: %w", err)
	}
	return tasks, nil
}

// Grouped returns the catalog keyed by category.
func (s *CatalogService) Grouped(ctx context.Context) (map[string][]*domain.PredefinedTask, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.GroupByCategory(tasks), nil
}
