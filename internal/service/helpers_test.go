package service

import (
	"testing"
	"time"

	"taskquest/internal/domain"
	"taskquest/internal/lock"
	"taskquest/internal/repository/sqlite"
	"taskquest/internal/testutil"
)

// 2024-03-15 10:00 UTC; yesterday is 2024-03-14.
var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	store      *sqlite.Store
	clock      Clock
	tasks      *TaskService
	ledger     *LedgerService
	recurrence *RecurrenceEngine
	penalty    *PenaltyEngine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := testutil.NewTestStore(t)
	clock := FixedClock(testNow)
	locker := lock.NewLocalLocker()
	return &testEnv{
		store:      store,
		clock:      clock,
		tasks:      NewTaskService(store, clock),
		ledger:     NewLedgerService(store, clock),
		recurrence: NewRecurrenceEngine(store, locker, clock),
		penalty:    NewPenaltyEngine(store, locker, clock),
	}
}

func identity(u *domain.User) domain.Identity {
	return domain.Identity{UserID: u.ID, Username: u.Username}
}

func today() domain.Date     { return domain.DateOf(testNow) }
func yesterday() domain.Date { return today().AddDays(-1) }
