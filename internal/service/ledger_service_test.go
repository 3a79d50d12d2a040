package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"taskquest/internal/testutil"
)

func TestCompleteTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "alice", 0)
	task := testutil.CreateTask(t, env.store, u.ID, "Run", 40, today())

	gained, err := env.ledger.CompleteTask(ctx, identity(u), task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if gained != 40 {
		t.Errorf("gained = %d, want 40", gained)
	}

	user, _ := env.store.GetUserByID(ctx, u.ID)
	if user.TotalExp != 40 {
		t.Errorf("total_exp = %d, want 40", user.TotalExp)
	}
	rec, err := env.store.GetDailyRecord(ctx, u.ID, today())
	if err != nil {
		t.Fatalf("GetDailyRecord: %v", err)
	}
	if rec.ExpGained != 40 || rec.ExpLost != 0 {
		t.Errorf("record = %+v, want gained 40", rec)
	}

	// completion is one-way and never credits twice
	if _, err := env.ledger.CompleteTask(ctx, identity(u), task.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second completion err = %v, want ErrAlreadyCompleted", err)
	}
	user, _ = env.store.GetUserByID(ctx, u.ID)
	if user.TotalExp != 40 {
		t.Errorf("total_exp after repeat = %d, want 40", user.TotalExp)
	}
}

func TestCompleteTask_AccumulatesDailyGain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "alice", 0)
	a := testutil.CreateTask(t, env.store, u.ID, "A", 15, today())
	b := testutil.CreateTask(t, env.store, u.ID, "B", 25, today())

	for _, id := range []int64{a.ID, b.ID} {
		if _, err := env.ledger.CompleteTask(ctx, identity(u), id); err != nil {
			t.Fatalf("CompleteTask(%d): %v", id, err)
		}
	}

	rec, err := env.store.GetDailyRecord(ctx, u.ID, today())
	if err != nil {
		t.Fatalf("GetDailyRecord: %v", err)
	}
	if rec.ExpGained != 40 {
		t.Errorf("exp_gained = %d, want 40", rec.ExpGained)
	}
}

func TestCompleteTask_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "alice", 0)
	other := testutil.CreateUser(t, env.store, "bob", 0)
	task := testutil.CreateTask(t, env.store, other.ID, "Theirs", 10, today())

	if _, err := env.ledger.CompleteTask(ctx, identity(u), task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign task err = %v, want ErrNotFound", err)
	}
	if _, err := env.ledger.CompleteTask(ctx, identity(u), 4242); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing task err = %v, want ErrNotFound", err)
	}
}

func TestCompleteTask_Concurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "alice", 0)
	task := testutil.CreateTask(t, env.store, u.ID, "Race", 30, today())

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.ledger.CompleteTask(ctx, identity(u), task.ID)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, ErrAlreadyCompleted) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	user, _ := env.store.GetUserByID(ctx, u.ID)
	if user.TotalExp != 30 {
		t.Errorf("total_exp = %d, want 30", user.TotalExp)
	}
}

func TestApplyPenalty_ClampsAtZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "alice", 20)

	applied, err := env.ledger.ApplyPenalty(ctx, u.ID, 50, yesterday())
	if err != nil {
		t.Fatalf("ApplyPenalty: %v", err)
	}
	if applied != 20 {
		t.Errorf("applied = %d, want 20", applied)
	}

	user, _ := env.store.GetUserByID(ctx, u.ID)
	if user.TotalExp != 0 {
		t.Errorf("total_exp = %d, want 0", user.TotalExp)
	}
	rec, err := env.store.GetDailyRecord(ctx, u.ID, yesterday())
	if err != nil {
		t.Fatalf("GetDailyRecord: %v", err)
	}
	if rec.ExpLost != 20 {
		t.Errorf("exp_lost = %d, want 20", rec.ExpLost)
	}

	if _, err := env.ledger.ApplyPenalty(ctx, u.ID, -1, yesterday()); !errors.Is(err, ErrValidation) {
		t.Errorf("negative amount err = %v, want ErrValidation", err)
	}
	if _, err := env.ledger.ApplyPenalty(ctx, 777, 10, yesterday()); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestReconcile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "alice", 0)

	for _, exp := range []int64{30, 50} {
		task := testutil.CreateTask(t, env.store, u.ID, "t", exp, today())
		if _, err := env.ledger.CompleteTask(ctx, identity(u), task.ID); err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
	}
	if _, err := env.ledger.ApplyPenalty(ctx, u.ID, 100, yesterday()); err != nil {
		t.Fatalf("ApplyPenalty: %v", err)
	}

	bal, err := env.ledger.Reconcile(ctx, identity(u))
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if bal.TotalExp != 0 || bal.SumGained != 80 || bal.SumLost != 80 || bal.Drift != 0 {
		t.Errorf("balance = %+v", bal)
	}
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "alice", 0)

	for i := 0; i < 5; i++ {
		if err := env.store.AddDailyGain(ctx, u.ID, today().AddDays(-i), int64(i+1)); err != nil {
			t.Fatalf("AddDailyGain: %v", err)
		}
	}

	records, err := env.ledger.History(ctx, identity(u), 3)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if !records[0].Date.Equal(today()) || !records[2].Date.Equal(today().AddDays(-2)) {
		t.Errorf("records not newest first: %s .. %s", records[0].Date, records[2].Date)
	}
}
