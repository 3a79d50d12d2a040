package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"taskquest/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	apply := flag.Bool("apply", false, "apply pending migrations")
	flag.Parse()

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	all, err := migrations.All()
	if err != nil {
		log.Fatalf("read migrations: %v", err)
	}

	if _, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		log.Fatalf("create schema_migrations: %v", err)
	}

	for _, m := range all {
		var done bool
		if err := db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, m.Name).Scan(&done); err != nil {
			log.Fatalf("check %s: %v", m.Name, err)
		}
		if done {
			fmt.Printf("skip    %s\n", m.Name)
			continue
		}
		if !*apply {
			fmt.Printf("pending %s\n", m.Name)
			continue
		}

		tx, err := db.Begin(ctx)
		if err != nil {
			log.Fatalf("begin: %v", err)
		}
		if _, err := tx.Exec(ctx, m.SQL); err != nil {
			_ = tx.Rollback(ctx)
			log.Fatalf("failed to apply %s: %v", m.Name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
			_ = tx.Rollback(ctx)
			log.Fatalf("record %s: %v", m.Name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			log.Fatalf("commit %s: %v", m.Name, err)
		}
		fmt.Printf("applied %s\n", m.Name)
	}
}
