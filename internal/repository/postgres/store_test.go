package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"taskquest/internal/migrations"
	"taskquest/internal/repository"
	"taskquest/internal/repository/storetest"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestStore runs the shared suite against a real database. The schema is
// applied once and every subtest starts from truncated tables.
func TestStore(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	all, err := migrations.All()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	for _, m := range all {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			t.Fatalf("apply %s: %v", m.Name, err)
		}
	}

	storetest.Run(t, func(t *testing.T) repository.Store {
		_, err := pool.Exec(context.Background(),
			`TRUNCATE users, tasks, user_default_tasks, daily_records, job_runs,
			 predefined_tasks, user_settings, task_requests RESTART IDENTITY CASCADE`)
		if err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return NewStore(pool)
	})
}
