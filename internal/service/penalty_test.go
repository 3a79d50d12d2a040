package service

import (
	"context"
	"errors"
	"testing"

	"taskquest/internal/repository"
	"taskquest/internal/testutil"
)

func TestPenalty_Scenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "alice", 100)

	testutil.CreateTask(t, env.store, u.ID, "A", 30, yesterday())
	testutil.CreateTask(t, env.store, u.ID, "B", 20, yesterday())
	done := testutil.CreateTask(t, env.store, u.ID, "C", 60, yesterday())
	if _, err := env.store.MarkTaskCompleted(ctx, u.ID, done.ID); err != nil {
		t.Fatalf("MarkTaskCompleted: %v", err)
	}
	// due today: not yet overdue
	testutil.CreateTask(t, env.store, u.ID, "D", 70, today())

	res, err := env.penalty.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Processed != 1 || res.ExpDeducted != 50 || !res.Date.Equal(yesterday()) {
		t.Errorf("result = %+v", res)
	}

	user, _ := env.store.GetUserByID(ctx, u.ID)
	if user.TotalExp != 50 {
		t.Errorf("total_exp = %d, want 50", user.TotalExp)
	}
	rec, err := env.store.GetDailyRecord(ctx, u.ID, yesterday())
	if err != nil {
		t.Fatalf("GetDailyRecord: %v", err)
	}
	if rec.ExpLost != 50 {
		t.Errorf("exp_lost = %d, want 50", rec.ExpLost)
	}
}

func TestPenalty_SecondRunIsNoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "alice", 100)
	testutil.CreateTask(t, env.store, u.ID, "A", 30, yesterday())

	if _, err := env.penalty.Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	res, err := env.penalty.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if res.Skipped != 1 || res.ExpDeducted != 0 {
		t.Errorf("second run = %+v, want one skipped", res)
	}

	user, _ := env.store.GetUserByID(ctx, u.ID)
	if user.TotalExp != 70 {
		t.Errorf("total_exp = %d, want 70", user.TotalExp)
	}
	rec, _ := env.store.GetDailyRecord(ctx, u.ID, yesterday())
	if rec.ExpLost != 30 {
		t.Errorf("exp_lost = %d, want 30", rec.ExpLost)
	}
}

func TestPenalty_NeverNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "alice", 10)
	testutil.CreateTask(t, env.store, u.ID, "Huge", 500, yesterday())

	res, err := env.penalty.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExpDeducted != 10 {
		t.Errorf("deducted = %d, want 10", res.ExpDeducted)
	}
	user, _ := env.store.GetUserByID(ctx, u.ID)
	if user.TotalExp != 0 {
		t.Errorf("total_exp = %d, want 0", user.TotalExp)
	}
}

func TestPenalty_UntouchedUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clean := testutil.CreateUser(t, env.store, "clean", 40)
	zero := testutil.CreateUser(t, env.store, "zero", 40)
	testutil.CreateTask(t, env.store, zero.ID, "Free", 0, yesterday())

	res, err := env.penalty.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Processed != 0 {
		t.Errorf("processed = %d, want 0", res.Processed)
	}

	for _, u := range []int64{clean.ID, zero.ID} {
		user, _ := env.store.GetUserByID(ctx, u)
		if user.TotalExp != 40 {
			t.Errorf("user %d total_exp = %d, want 40", u, user.TotalExp)
		}
		if _, err := env.store.GetDailyRecord(ctx, u, yesterday()); err == nil {
			t.Errorf("user %d got a daily record without a penalty", u)
		}
	}
}

func TestDailyJobs_ReconcileAfterCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "alice", 0)

	earned := testutil.CreateTask(t, env.store, u.ID, "Earn", 80, yesterday())
	if _, err := env.ledger.CompleteTask(ctx, identity(u), earned.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	missed := testutil.CreateTask(t, env.store, u.ID, "Missed", 25, yesterday())
	if err := env.store.SetDaily(ctx, u.ID, missed.ID); err != nil {
		t.Fatalf("SetDaily: %v", err)
	}

	jobs := &DailyJobs{Recurrence: env.recurrence, Penalty: env.penalty}
	results, err := jobs.Run(ctx)
	if err != nil {
		t.Fatalf("DailyJobs.Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	bal, err := env.ledger.Reconcile(ctx, identity(u))
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if bal.TotalExp != 55 || bal.Drift != 0 {
		t.Errorf("balance = %+v, want total 55 and no drift", bal)
	}
}

func TestPenalty_EmptyBalanceLeavesNoRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.store, "broke", 0)
	testutil.CreateTask(t, env.store, u.ID, "Missed", 30, yesterday())

	res, err := env.penalty.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Processed != 1 || res.ExpDeducted != 0 {
		t.Errorf("result = %+v, want one processed and nothing deducted", res)
	}

	if _, err := env.store.GetDailyRecord(ctx, u.ID, yesterday()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("daily record err = %v, want ErrNotFound", err)
	}

	applied, err := env.ledger.ApplyPenalty(ctx, u.ID, 10, today())
	if err != nil || applied != 0 {
		t.Fatalf("ApplyPenalty = %d, %v", applied, err)
	}
	if _, err := env.store.GetDailyRecord(ctx, u.ID, today()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("zero penalty wrote a record: %v", err)
	}
}
