// Package calendar derives calendar fields from work-log timestamps.
//
// Every function is pure; the timestamp layout is always passed in by the
// caller rather than held in shared state.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the bare calendar-date layout accepted for report dates and
// used as the stored work_date key.
const DateLayout = "2006-01-02"

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("malformed timestamp")

// ParseError reports a timestamp that does not match the expected layout.
type ParseError struct {
	Input  string
	Layout string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %q with layout %q: %v", e.Input, e.Layout, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Parse parses s using layout. Results are in UTC; no zone handling is done.
func Parse(layout, s string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Layout: layout, Err: err}
	}
	return t, nil
}

// ParseDate accepts either a full timestamp in layout or a bare YYYY-MM-DD date.
func ParseDate(layout, s string) (time.Time, error) {
	if t, err := Parse(layout, s); err == nil {
		return t, nil
	}
	return Parse(DateLayout, s)
}

func YearOf(t time.Time) int { return t.Year() }

func MonthOf(t time.Time) time.Month { return t.Month() }

// WeekdayOf returns the ISO weekday index: Monday=1 … Sunday=7.
func WeekdayOf(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// TimeOfDay returns the offset of t from its own midnight. The calendar date
// is discarded.
func TimeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// PreviousMonth returns the month before m; January wraps to December.
func PreviousMonth(m time.Month) time.Month {
	if m == time.January {
		return time.December
	}
	return m - 1
}

// PreviousMonthYear is PreviousMonth that also rolls the year back on wrap.
func PreviousMonthYear(year int, m time.Month) (int, time.Month) {
	if m == time.January {
		return year - 1, time.December
	}
	return year, m - 1
}

// MonthLabel is the upper-case month name stored in the log table.
func MonthLabel(m time.Month) string {
	return strings.ToUpper(m.String())
}

// ParseMonthLabel is the inverse of MonthLabel.
func ParseMonthLabel(s string) (time.Month, error) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown month label %q", s)
}

// DayLabel is the upper-case weekday name stored in the log table.
func DayLabel(t time.Time) string {
	return strings.ToUpper(t.Weekday().String())
}

// DateKey formats the calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
