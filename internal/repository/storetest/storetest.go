// Package storetest is a behavioural suite every repository.Store
// implementation must pass.
package storetest

import (
	"context"
	"errors"
	"testing"

	"taskquest/internal/domain"
	"taskquest/internal/repository"
)

// Run executes the suite. open must return an empty store for each call.
func Run(t *testing.T, open func(t *testing.T) repository.Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s repository.Store)
	}{
		{"Users", testUsers},
		{"Exp", testExp},
		{"Tasks", testTasks},
		{"CompleteOnce", testCompleteOnce},
		{"IncompleteTotals", testIncompleteTotals},
		{"DailyTemplates", testDailyTemplates},
		{"DailyRecords", testDailyRecords},
		{"ClaimJobRun", testClaimJobRun},
		{"Catalog", testCatalog},
		{"Settings", testSettings},
		{"TaskRequests", testTaskRequests},
		{"TxRollback", testTxRollback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, open(t))
		})
	}
}

var (
	day       = domain.NewDate(2024, 3, 15)
	yesterday = day.AddDays(-1)
)

func mustUser(t *testing.T, s repository.Store, name string) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return u
}

func mustTask(t *testing.T, s repository.Store, userID int64, name string, exp int64, due domain.Date) *domain.Task {
	t.Helper()
	task := &domain.Task{UserID: userID, Name: name, ExpValue: exp, DueDate: due}
	if err := s.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("CreateTask(%s): %v", name, err)
	}
	return task
}

func testUsers(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	if u.ID == 0 || u.CreatedAt.IsZero() {
		t.Fatalf("CreateUser did not fill generated fields: %+v", u)
	}

	dup := &domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("duplicate username err = %v, want ErrDuplicate", err)
	}

	got, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != u.ID || got.Email != "alice@example.com" || got.PasswordHash != "hash" {
		t.Errorf("GetUserByUsername = %+v", got)
	}
	if _, err := s.GetUserByID(ctx, u.ID+1000); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing user err = %v, want ErrNotFound", err)
	}
}

func testExp(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")

	total, err := s.AddExp(ctx, u.ID, 30)
	if err != nil || total != 30 {
		t.Fatalf("AddExp = %d, %v; want 30", total, err)
	}

	applied, err := s.DeductExp(ctx, u.ID, 10)
	if err != nil || applied != 10 {
		t.Fatalf("DeductExp(10) = %d, %v; want 10", applied, err)
	}
	applied, err = s.DeductExp(ctx, u.ID, 100)
	if err != nil || applied != 20 {
		t.Fatalf("DeductExp(100) = %d, %v; want clamped 20", applied, err)
	}

	got, _ := s.GetUserByID(ctx, u.ID)
	if got.TotalExp != 0 {
		t.Errorf("total_exp = %d, want 0", got.TotalExp)
	}
	if _, err := s.DeductExp(ctx, u.ID+1000, 5); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("DeductExp missing user err = %v, want ErrNotFound", err)
	}
}

func testTasks(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	other := mustUser(t, s, "bob")

	low := mustTask(t, s, u.ID, "low", 10, day)
	high := mustTask(t, s, u.ID, "high", 50, day)
	mustTask(t, s, u.ID, "old", 90, yesterday)
	foreign := mustTask(t, s, other.ID, "foreign", 5, day)

	got, err := s.GetTask(ctx, u.ID, high.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Name != "high" || got.ExpValue != 50 || !got.DueDate.Equal(day) || got.IsCompleted || got.IsDaily {
		t.Errorf("GetTask = %+v", got)
	}
	if _, err := s.GetTask(ctx, u.ID, foreign.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("foreign GetTask err = %v, want ErrNotFound", err)
	}

	due, err := s.ListTasksDue(ctx, u.ID, day)
	if err != nil {
		t.Fatalf("ListTasksDue: %v", err)
	}
	if len(due) != 2 || due[0].ID != high.ID || due[1].ID != low.ID {
		t.Errorf("ListTasksDue order wrong: %+v", due)
	}

	all, err := s.ListTasks(ctx, u.ID)
	if err != nil || len(all) != 3 {
		t.Errorf("ListTasks = %d tasks, %v; want 3", len(all), err)
	}

	if err := s.DeleteTask(ctx, other.ID, low.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("foreign DeleteTask err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteTask(ctx, u.ID, low.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := s.GetTask(ctx, u.ID, low.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetTask after delete err = %v", err)
	}
}

func testCompleteOnce(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	task := mustTask(t, s, u.ID, "run", 10, day)

	changed, err := s.MarkTaskCompleted(ctx, u.ID, task.ID)
	if err != nil || !changed {
		t.Fatalf("first MarkTaskCompleted = %v, %v", changed, err)
	}
	changed, err = s.MarkTaskCompleted(ctx, u.ID, task.ID)
	if err != nil || changed {
		t.Fatalf("second MarkTaskCompleted = %v, %v; want no change", changed, err)
	}

	got, _ := s.GetTask(ctx, u.ID, task.ID)
	if !got.IsCompleted {
		t.Error("task not completed")
	}
}

func testIncompleteTotals(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustUser(t, s, "alice")
	b := mustUser(t, s, "bob")
	c := mustUser(t, s, "carol")

	mustTask(t, s, a.ID, "a1", 30, yesterday)
	mustTask(t, s, a.ID, "a2", 20, yesterday)
	done := mustTask(t, s, a.ID, "a3", 99, yesterday)
	if _, err := s.MarkTaskCompleted(ctx, a.ID, done.ID); err != nil {
		t.Fatal(err)
	}
	mustTask(t, s, a.ID, "today", 77, day)
	mustTask(t, s, b.ID, "b1", 15, yesterday)
	mustTask(t, s, c.ID, "free", 0, yesterday)

	dues, err := s.IncompleteTotals(ctx, yesterday)
	if err != nil {
		t.Fatalf("IncompleteTotals: %v", err)
	}
	want := map[int64]int64{a.ID: 50, b.ID: 15}
	if len(dues) != len(want) {
		t.Fatalf("IncompleteTotals = %+v, want %v", dues, want)
	}
	for _, d := range dues {
		if want[d.UserID] != d.Amount {
			t.Errorf("user %d amount = %d, want %d", d.UserID, d.Amount, want[d.UserID])
		}
	}
}

func testDailyTemplates(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	if _, err := s.InsertPredefinedTask(ctx, &domain.PredefinedTask{Name: "Yoga", DefaultExpValue: 40, Category: "Physical"}); err != nil {
		t.Fatal(err)
	}
	catalog, _ := s.ListPredefinedTasks(ctx)
	pid := catalog[0].ID

	task := &domain.Task{UserID: u.ID, Name: "Yoga", Description: "mat", ExpValue: 40, DueDate: yesterday, PredefinedTaskID: &pid}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := s.SetDaily(ctx, u.ID, task.ID); err != nil {
			t.Fatalf("SetDaily #%d: %v", i, err)
		}
	}

	tmpls, err := s.ListDailyTemplates(ctx)
	if err != nil {
		t.Fatalf("ListDailyTemplates: %v", err)
	}
	if len(tmpls) != 1 {
		t.Fatalf("got %d templates, want 1", len(tmpls))
	}
	tm := tmpls[0]
	if tm.TaskID != task.ID || tm.Name != "Yoga" || tm.Description != "mat" || tm.ExpValue != 40 ||
		!tm.DueDate.Equal(yesterday) || tm.PredefinedTaskID == nil || *tm.PredefinedTaskID != pid {
		t.Errorf("template = %+v", tm)
	}

	got, _ := s.GetTask(ctx, u.ID, task.ID)
	if !got.IsDaily {
		t.Error("GetTask should report is_daily")
	}

	if err := s.UnsetDaily(ctx, u.ID, task.ID); err != nil {
		t.Fatalf("UnsetDaily: %v", err)
	}
	if err := s.UnsetDaily(ctx, u.ID, task.ID); err != nil {
		t.Fatalf("UnsetDaily twice: %v", err)
	}
	tmpls, _ = s.ListDailyTemplates(ctx)
	if len(tmpls) != 0 {
		t.Errorf("templates after unset = %+v", tmpls)
	}
}

func testDailyRecords(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")

	if _, err := s.GetDailyRecord(ctx, u.ID, day); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing record err = %v", err)
	}

	steps := []struct {
		gain bool
		d    domain.Date
		n    int64
	}{
		{true, day, 10}, {true, day, 15}, {false, day, 5},
		{false, yesterday, 7}, {false, yesterday, 3},
	}
	for _, st := range steps {
		var err error
		if st.gain {
			err = s.AddDailyGain(ctx, u.ID, st.d, st.n)
		} else {
			err = s.AddDailyLoss(ctx, u.ID, st.d, st.n)
		}
		if err != nil {
			t.Fatalf("record %+v: %v", st, err)
		}
	}

	rec, err := s.GetDailyRecord(ctx, u.ID, day)
	if err != nil {
		t.Fatalf("GetDailyRecord: %v", err)
	}
	if rec.ExpGained != 25 || rec.ExpLost != 5 || !rec.Date.Equal(day) {
		t.Errorf("record = %+v", rec)
	}

	recs, err := s.ListDailyRecords(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("ListDailyRecords: %v", err)
	}
	if len(recs) != 2 || !recs[0].Date.Equal(day) || recs[1].ExpLost != 10 {
		t.Errorf("records = %+v", recs)
	}
	if recs, _ := s.ListDailyRecords(ctx, u.ID, 1); len(recs) != 1 {
		t.Errorf("limit ignored: %d records", len(recs))
	}

	gained, lost, err := s.SumDailyRecords(ctx, u.ID)
	if err != nil || gained != 25 || lost != 15 {
		t.Errorf("SumDailyRecords = %d, %d, %v; want 25, 15", gained, lost, err)
	}

	other := mustUser(t, s, "bob")
	gained, lost, err = s.SumDailyRecords(ctx, other.ID)
	if err != nil || gained != 0 || lost != 0 {
		t.Errorf("empty SumDailyRecords = %d, %d, %v", gained, lost, err)
	}
}

func testClaimJobRun(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")

	cases := []struct {
		job  string
		d    domain.Date
		want bool
	}{
		{domain.JobPenalty, day, true},
		{domain.JobPenalty, day, false},
		{domain.JobRecurrence, day, true},
		{domain.JobPenalty, yesterday, true},
	}
	for _, c := range cases {
		got, err := s.ClaimJobRun(ctx, c.job, u.ID, c.d)
		if err != nil {
			t.Fatalf("ClaimJobRun(%s, %s): %v", c.job, c.d, err)
		}
		if got != c.want {
			t.Errorf("ClaimJobRun(%s, %s) = %v, want %v", c.job, c.d, got, c.want)
		}
	}
}

func testCatalog(t *testing.T, s repository.Store) {
	ctx := context.Background()
	p := &domain.PredefinedTask{Name: "Reading", DefaultExpValue: 30, Category: "Mental", IsDefault: true}

	added, err := s.InsertPredefinedTask(ctx, p)
	if err != nil || !added {
		t.Fatalf("InsertPredefinedTask = %v, %v", added, err)
	}
	added, err = s.InsertPredefinedTask(ctx, p)
	if err != nil || added {
		t.Fatalf("duplicate InsertPredefinedTask = %v, %v; want ignored", added, err)
	}

	list, err := s.ListPredefinedTasks(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListPredefinedTasks = %d, %v", len(list), err)
	}
	got, err := s.GetPredefinedTask(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("GetPredefinedTask: %v", err)
	}
	if got.Name != "Reading" || got.DefaultExpValue != 30 || got.Category != "Mental" || !got.IsDefault {
		t.Errorf("GetPredefinedTask = %+v", got)
	}
	if _, err := s.GetPredefinedTask(ctx, list[0].ID+1000); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing predefined err = %v", err)
	}
}

func testSettings(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")

	if _, err := s.GetSettings(ctx, u.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("absent settings err = %v", err)
	}

	st := &domain.Settings{UserID: u.ID, Theme: domain.ThemeDark, NotificationEnabled: false}
	if err := s.UpsertSettings(ctx, st); err != nil {
		t.Fatalf("UpsertSettings: %v", err)
	}
	st.Theme = domain.ThemeLight
	if err := s.UpsertSettings(ctx, st); err != nil {
		t.Fatalf("UpsertSettings update: %v", err)
	}

	got, err := s.GetSettings(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if *got != *st {
		t.Errorf("GetSettings = %+v, want %+v", got, st)
	}
}

func testTaskRequests(t *testing.T, s repository.Store) {
	u := mustUser(t, s, "alice")
	r := &domain.TaskRequest{UserID: u.ID, Name: "Chess", SuggestedExpValue: 25}
	if err := s.CreateTaskRequest(context.Background(), r); err != nil {
		t.Fatalf("CreateTaskRequest: %v", err)
	}
	if r.ID == 0 || r.Status != domain.TaskRequestPending || r.CreatedAt.IsZero() {
		t.Errorf("request = %+v", r)
	}
}

func testTxRollback(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(q repository.Querier) error {
		if _, err := q.AddExp(ctx, u.ID, 50); err != nil {
			return err
		}
		if err := q.AddDailyGain(ctx, u.ID, day, 50); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v, want boom", err)
	}

	got, _ := s.GetUserByID(ctx, u.ID)
	if got.TotalExp != 0 {
		t.Errorf("total_exp = %d after rollback, want 0", got.TotalExp)
	}
	if _, err := s.GetDailyRecord(ctx, u.ID, day); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("daily record survived rollback: %v", err)
	}

	err = s.WithTx(ctx, func(q repository.Querier) error {
		_, err := q.AddExp(ctx, u.ID, 5)
		return err
	})
	if err != nil {
		t.Fatalf("WithTx commit: %v", err)
	}
	got, _ = s.GetUserByID(ctx, u.ID)
	if got.TotalExp != 5 {
		t.Errorf("total_exp = %d after commit, want 5", got.TotalExp)
	}
}
