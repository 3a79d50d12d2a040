package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("API_RATE_LIMIT", "abc")

	cfg := Load()

	if cfg.DBDriver != DriverSQLite {
		t.Errorf("driver = %q", cfg.DBDriver)
	}
	if cfg.AppPort != "8080" {
		t.Errorf("port = %q", cfg.AppPort)
	}
	if cfg.Location != time.UTC {
		t.Errorf("location = %v, want UTC", cfg.Location)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("jwt ttl = %v", cfg.JWTTTL)
	}
	if cfg.APIRateLimit != 300 {
		t.Errorf("invalid API_RATE_LIMIT should fall back, got %d", cfg.APIRateLimit)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("origins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_URL", "postgres://localhost/taskquest")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_TIMEZONE", "Europe/Berlin")
	t.Setenv("REFRESH_AT", "03:30")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("SEED_CATALOG", "false")
	t.Setenv("USER_RATE_LIMIT", "5")

	cfg := Load()

	if cfg.DBDriver != DriverPostgres {
		t.Errorf("driver = %q", cfg.DBDriver)
	}
	if cfg.Location.String() != "Europe/Berlin" {
		t.Errorf("location = %v", cfg.Location)
	}
	if cfg.RefreshAt != "03:30" || !cfg.SchedulerEnabled || cfg.SeedCatalog {
		t.Errorf("scheduler settings not applied: %+v", cfg)
	}
	if cfg.UserRateLimit != 5 {
		t.Errorf("user rate limit = %d", cfg.UserRateLimit)
	}
}
