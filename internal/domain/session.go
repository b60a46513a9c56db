package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/worklog/internal/calendar"
)

var (
	// ErrNegativeDuration is returned when an exit time of day precedes the
	// matching entry time of day.
	ErrNegativeDuration = errors.New("exit precedes entry")

	// ErrSessionClosed is returned when closing a session that already has a finish.
	ErrSessionClosed = errors.New("session already closed")
)

// WorkSession is one day's entry/exit pair. Finish and Hours stay nil until
// the matching exit is recorded.
type WorkSession struct {
	ID       string
	Year     int
	Month    time.Month
	Day      string // weekday label, e.g. MONDAY
	Weekday  int    // 1..7, Monday first
	WorkDate string // YYYY-MM-DD of Start
	Start    time.Time
	Finish   *time.Time
	Hours    *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWorkSession opens a session at start, deriving its calendar fields.
func NewWorkSession(id string, start, now time.Time) *WorkSession {
	return &WorkSession{
		ID:        id,
		Year:      calendar.YearOf(start),
		Month:     calendar.MonthOf(start),
		Day:       calendar.DayLabel(start),
		Weekday:   calendar.WeekdayOf(start),
		WorkDate:  calendar.DateKey(start),
		Start:     start,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *WorkSession) IsOpen() bool {
	return s.Finish == nil
}

// Close records the exit. It may only happen once per session, and the
// computed duration must not be negative.
func (s *WorkSession) Close(finish, now time.Time) error {
	if !s.IsOpen() {
		return fmt.Errorf("session %s: %w", s.ID, ErrSessionClosed)
	}
	hours := DurationHours(s.Start, finish)
	if hours < 0 {
		return fmt.Errorf("session %s: %s before %s: %w",
			s.ID, finish.Format("15:04"), s.Start.Format("15:04"), ErrNegativeDuration)
	}
	s.Finish = &finish
	s.Hours = &hours
	s.UpdatedAt = now
	return nil
}

// DurationHours is the difference between the times of day of start and
// finish, in hours rounded to two decimals. Calendar dates are ignored, so a
// finish earlier in the day than start yields a negative value.
func DurationHours(start, finish time.Time) float64 {
	ms := (calendar.TimeOfDay(finish) - calendar.TimeOfDay(start)).Milliseconds()
	return RoundHours(MillisecondsToHours(ms))
}

func MillisecondsToHours(ms int64) float64 {
	return float64(ms) / 3_600_000
}

// RoundHours rounds h to two decimal places.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// ReportEntry is one row of a monthly report.
type ReportEntry struct {
	Day    string
	Start  time.Time
	Finish *time.Time
	Hours  *float64
}

// ReportEntryFrom projects a session onto the report tuple.
func ReportEntryFrom(s *WorkSession) ReportEntry {
	return ReportEntry{Day: s.Day, Start: s.Start, Finish: s.Finish, Hours: s.Hours}
}
