// Command run_jobs triggers the daily batch jobs once, for use from an
// external cron or an operator shell.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"taskquest/internal/config"
	"taskquest/internal/db"
	"taskquest/internal/domain"
	"taskquest/internal/http/middleware"
	"taskquest/internal/lock"
	"taskquest/internal/logger"
	"taskquest/internal/service"
)

func main() {
	job := flag.String("job", "all", "job to run: refresh, penalties or all")
	date := flag.String("date", "", "penalty date YYYY-MM-DD for -job=penalties (default: yesterday)")
	flag.Parse()

	cfg := config.Load()
	logger.Init(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, File: cfg.LogFile})

	store := db.OpenStore(cfg)
	defer store.Close()

	var locker lock.Locker = lock.NewLocalLocker()
	if rdb := middleware.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		defer rdb.Close()
		locker = lock.NewFallbackLocker(lock.NewRedisLocker(rdb), locker)
	}

	clock := service.NewClock(cfg.Location)
	recurrence := service.NewRecurrenceEngine(store, locker, clock)
	penalty := service.NewPenaltyEngine(store, locker, clock)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var results []*service.JobResult
	failed := false
	run := func(name string, fn func() (*service.JobResult, error)) {
		res, err := fn()
		if err != nil {
			logger.Fatal("job failed", "job", name, "error", err)
		}
		results = append(results, res)
	}

	switch *job {
	case "refresh":
		run(domain.JobRecurrence, func() (*service.JobResult, error) { return recurrence.Run(ctx) })
	case "penalties":
		run(domain.JobPenalty, func() (*service.JobResult, error) { return runPenalty(ctx, penalty, *date) })
	case "all":
		jobs := &service.DailyJobs{Recurrence: recurrence, Penalty: penalty}
		var err error
		if results, err = jobs.Run(ctx); err != nil {
			logger.Error("daily jobs finished with errors", "error", err)
			failed = true
		}
	default:
		logger.Fatal("unknown job", "job", *job)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(results)

	if failed {
		os.Exit(1)
	}
}

func runPenalty(ctx context.Context, e *service.PenaltyEngine, date string) (*service.JobResult, error) {
	if date == "" {
		return e.Run(ctx)
	}
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}
	return e.RunFor(ctx, day)
}
