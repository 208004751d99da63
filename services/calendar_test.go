package services

import (
	"testing"
	"time"

	"github.com/stikovich/advent.calendar/config"
)

func seasonCalendar() *CalendarService {
	cfg := &config.Config{
		SeasonStart: config.Date{Time: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)},
		SeasonEnd:   config.Date{Time: time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)},
		SeasonDays:  31,
	}
	return NewCalendarService(cfg)
}

func TestIsDayOpen(t *testing.T) {
	cal := seasonCalendar()

	cases := []struct {
		name  string
		day   int
		today time.Time
		want  bool
	}{
		{"first day opens on season start", 1, time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC), true},
		{"first day closed before season start", 1, time.Date(2025, 12, 14, 23, 59, 0, 0, time.UTC), false},
		{"future door closed", 5, time.Date(2025, 12, 16, 0, 0, 0, 0, time.UTC), false},
		{"door opens exactly on its date", 5, time.Date(2025, 12, 19, 0, 0, 0, 0, time.UTC), true},
		{"earlier doors stay open", 1, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"open on the season end date", 1, time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC), true},
		{"closed after season end", 1, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"day zero is never open", 0, time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC), false},
		{"day beyond count is never open", 32, time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC), false},
		{"negative day is never open", -1, time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC), false},
		{"time of day does not matter", 2, time.Date(2025, 12, 16, 23, 59, 59, 0, time.UTC), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cal.IsDayOpen(tc.day, tc.today); got != tc.want {
				t.Errorf("IsDayOpen(%d, %s) = %v, want %v", tc.day, tc.today, got, tc.want)
			}
		})
	}
}

func TestDayCountIndependentOfEnd(t *testing.T) {
	// Day 31 falls on 2026-01-14 which equals the end date, so the last door
	// is reachable for exactly one day.
	cal := seasonCalendar()
	lastDay := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)
	if !cal.IsDayOpen(31, lastDay) {
		t.Error("door 31 should be open on the final day of the season")
	}
	if cal.IsDayOpen(31, lastDay.AddDate(0, 0, 1)) {
		t.Error("door 31 should close when the season ends")
	}
}

func TestDaysLabels(t *testing.T) {
	cal := seasonCalendar()
	days := cal.Days()
	if len(days) != 31 {
		t.Fatalf("expected 31 days, got %d", len(days))
	}
	if days[0].Day != 1 || days[0].Label != "15 December" {
		t.Errorf("day 1 = %+v, want {1 15 December}", days[0])
	}
	// Day 18 crosses the month boundary: 2026-01-01.
	if days[17].Label != "1 January" {
		t.Errorf("day 18 label = %q, want %q", days[17].Label, "1 January")
	}
	if days[30].Label != "14 January" {
		t.Errorf("day 31 label = %q, want %q", days[30].Label, "14 January")
	}
}

func TestOpenDays(t *testing.T) {
	cal := seasonCalendar()

	got := cal.OpenDays(time.Date(2025, 12, 17, 10, 0, 0, 0, time.UTC))
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("OpenDays = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("OpenDays = %v, want %v", got, want)
		}
	}

	if out := cal.OpenDays(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)); out != nil {
		t.Errorf("OpenDays after season end = %v, want none", out)
	}
	if out := cal.OpenDays(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)); out != nil {
		t.Errorf("OpenDays before season start = %v, want none", out)
	}
}
