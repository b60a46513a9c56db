package testutil

import (
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/google/uuid"
)

// TimestampLayout is the interchange layout used throughout the tests.
const TimestampLayout = "2006-01-02 15:04"

// At parses a TimestampLayout string and fails the test on error.
func At(t testing.TB, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(TimestampLayout, s)
	if err != nil {
		t.Fatalf("bad fixture timestamp %q: %v", s, err)
	}
	return ts
}

type SessionOption func(*domain.WorkSession)

// WithFinish closes the session at finish, computing hours the same way an exit does.
func WithFinish(finish time.Time) SessionOption {
	return func(s *domain.WorkSession) {
		h := domain.DurationHours(s.Start, finish)
		s.Finish = &finish
		s.Hours = &h
	}
}

// WithLabel overrides the stored month/weekday labels to place a row in a
// specific report slot regardless of its start date.
func WithLabel(year int, month time.Month, weekday int) SessionOption {
	return func(s *domain.WorkSession) {
		s.Year = year
		s.Month = month
		s.Weekday = weekday
	}
}

func NewTestSession(start time.Time, opts ...SessionOption) *domain.WorkSession {
	s := domain.NewWorkSession(uuid.New().String(), start, time.Now().UTC())
	for _, opt := range opts {
		opt(s)
	}
	return s
}
