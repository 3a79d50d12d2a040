package service

import (
	"time"

	"taskquest/internal/domain"
)

// Clock decides which calendar day it is for due dates and ledger records.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc, now: time.Now}
}

// FixedClock always reports t; used by tests and one-off backfills.
func FixedClock(t time.Time) Clock {
	return Clock{loc: t.Location(), now: func() time.Time { return t }}
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now().In(c.location())
}

func (c Clock) Today() domain.Date { return domain.DateOf(c.Now()) }

func (c Clock) Yesterday() domain.Date { return c.Today().AddDays(-1) }

func (c Clock) location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}
