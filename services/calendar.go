package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/stikovich/advent.calendar/config"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CalendarService decides which doors are currently open. Pure date math over
// the configured season window — no storage access, safe to call repeatedly.
type CalendarService struct {
	start    time.Time
	end      time.Time
	dayCount int
}

type CalendarDay struct {
	Day   int    `json:"day"`
	Label string `json:"label"`
}

func NewCalendarService(cfg *config.Config) *CalendarService {
	return &CalendarService{
		start:    dateOnly(cfg.SeasonStart.Time),
		end:      dateOnly(cfg.SeasonEnd.Time),
		dayCount: cfg.SeasonDays,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DoorDate returns the calendar date of a door: season start + (day-1).
func (s *CalendarService) DoorDate(day int) time.Time {
	return s.start.AddDate(0, 0, day-1)
}

// IsDayOpen reports whether a door may be interacted with today. Doors open
// progressively: the door's own date must have arrived AND the season must
// not be over. Days outside [1, dayCount] are always closed.
func (s *CalendarService) IsDayOpen(day int, today time.Time) bool {
	if day < 1 || day > s.dayCount {
		return false
	}
	now := dateOnly(today)
	door := s.DoorDate(day)
	return !door.After(now) && !now.After(s.end)
}

// Days enumerates every door with its display label, e.g. "15 December".
func (s *CalendarService) Days() []CalendarDay {
	titler := cases.Title(language.English)
	days := make([]CalendarDay, 0, s.dayCount)
	for i := 0; i < s.dayCount; i++ {
		date := s.start.AddDate(0, 0, i)
		label := fmt.Sprintf("%d %s", date.Day(), titler.String(strings.ToLower(date.Month().String())))
		days = append(days, CalendarDay{Day: i + 1, Label: label})
	}
	return days
}

// OpenDays returns the door numbers currently open, ascending.
func (s *CalendarService) OpenDays(today time.Time) []int {
	var open []int
	for day := 1; day <= s.dayCount; day++ {
		if s.IsDayOpen(day, today) {
			open = append(open, day)
		}
	}
	return open
}

func (s *CalendarService) DayCount() int { return s.dayCount }

func (s *CalendarService) SeasonStart() time.Time { return s.start }

func (s *CalendarService) SeasonEnd() time.Time { return s.end }
