package service

import (
	"context"
	"errors"
	"testing"

	"taskquest/internal/domain"
	"taskquest/internal/testutil"
)

func TestSettings_DefaultsAndSave(t *testing.T) {
	store := testutil.NewTestStore(t)
	svc := NewSettingsService(store)
	ctx := context.Background()
	u := testutil.CreateUser(t, store, "alice", 0)

	got, err := svc.Get(ctx, identity(u))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Theme != domain.ThemeLight || !got.NotificationEnabled {
		t.Errorf("defaults = %+v", got)
	}

	dark := domain.ThemeDark
	if _, err := svc.Save(ctx, identity(u), SettingsUpdate{Theme: &dark}); err != nil {
		t.Fatalf("Save theme: %v", err)
	}
	off := false
	saved, err := svc.Save(ctx, identity(u), SettingsUpdate{NotificationEnabled: &off})
	if err != nil {
		t.Fatalf("Save notifications: %v", err)
	}
	if saved.Theme != domain.ThemeDark || saved.NotificationEnabled {
		t.Errorf("partial update lost a field: %+v", saved)
	}

	got, _ = svc.Get(ctx, identity(u))
	if *got != *saved {
		t.Errorf("Get = %+v, want %+v", got, saved)
	}

	purple := "purple"
	if _, err := svc.Save(ctx, identity(u), SettingsUpdate{Theme: &purple}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad theme err = %v", err)
	}
}

func TestCatalogService_SeedIdempotent(t *testing.T) {
	store := testutil.NewTestStore(t)
	svc := NewCatalogService(store)
	ctx := context.Background()

	added, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if added != 15 {
		t.Errorf("added = %d, want 15", added)
	}
	again, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if again != 0 {
		t.Errorf("second seed added %d", again)
	}

	grouped, err := svc.Grouped(ctx)
	if err != nil {
		t.Fatalf("Grouped: %v", err)
	}
	total := 0
	for _, entries := range grouped {
		total += len(entries)
	}
	if total != 15 || len(grouped) < 2 {
		t.Errorf("grouped %d entries into %d categories", total, len(grouped))
	}
}
