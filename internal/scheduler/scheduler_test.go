package scheduler

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"00:01", "0 1 0 * * *", false},
		{"23:59", "0 59 23 * * *", false},
		{" 7:05 ", "0 5 7 * * *", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"noon", "", true},
		{"1:2:3", "", true},
	}
	for _, tt := range tests {
		got, err := buildDailySpec(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("buildDailySpec(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("buildDailySpec(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDailySpecFiresInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	spec, err := buildDailySpec("00:05")
	if err != nil {
		t.Fatal(err)
	}
	sched, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(spec)
	if err != nil {
		t.Fatalf("parse %q: %v", spec, err)
	}

	from := time.Date(2024, 3, 15, 22, 0, 0, 0, loc)
	next := sched.Next(from)
	want := time.Date(2024, 3, 16, 0, 5, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestScheduleDaily_RejectsBadTime(t *testing.T) {
	s := New(time.UTC)
	if _, err := s.ScheduleDaily("25:00", func() {}); err == nil {
		t.Fatal("expected error for invalid time")
	}
	if _, err := s.ScheduleDaily("06:30", func() {}); err != nil {
		t.Fatalf("ScheduleDaily: %v", err)
	}
}
