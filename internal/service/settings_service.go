package service

import (
	"context"
	"errors"
	"fmt"

	"taskquest/internal/domain"
	"taskquest/internal/repository"
)

type SettingsService struct {
	store repository.Store
}

func NewSettingsService(store repository.Store) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns saved settings or the defaults when none were saved.
func (s *SettingsService) Get(ctx context.Context, id domain.Identity) (*domain.Settings, error) {
	st, err := s.store.GetSettings(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			def := domain.DefaultSettings(id.UserID)
			return &def, nil
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return st, nil
}

// SettingsUpdate holds optional fields; nil leaves the current value.
type SettingsUpdate struct {
	Theme               *string
	NotificationEnabled *bool
}

func (s *SettingsService) Save(ctx context.Context, id domain.Identity, upd SettingsUpdate) (*domain.Settings, error) {
	if upd.Theme != nil && !domain.ValidTheme(*upd.Theme) {
		return nil, invalid("theme must be %q or %q", domain.ThemeLight, domain.ThemeDark)
	}

	var out *domain.Settings
	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		cur, err := q.GetSettings(ctx, id.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			def := domain.DefaultSettings(id.UserID)
			cur, err = &def, nil
		}
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}

		if upd.Theme != nil {
			cur.Theme = *upd.Theme
		}
		if upd.NotificationEnabled != nil {
			cur.NotificationEnabled = *upd.NotificationEnabled
		}
		if err := q.UpsertSettings(ctx, cur); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
