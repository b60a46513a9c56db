package domain

import (
	"fmt"
	"time"

	"github.com/alexanderramin/worklog/internal/calendar"
)

// ReportWindow selects one month's sessions. Rows are labelled by weekday
// index rather than full date, so the window takes the current month's rows
// up to and including Threshold and the previous month's rows above it.
type ReportWindow struct {
	Year      int
	Month     time.Month
	PrevYear  int
	PrevMonth time.Month
	Threshold int
}

// NewReportWindow builds the window for month m of year. The previous-month
// branch carries its own year so a January report reaches back into December
// of the year before.
func NewReportWindow(year int, m time.Month, threshold int) ReportWindow {
	py, pm := calendar.PreviousMonthYear(year, m)
	return ReportWindow{Year: year, Month: m, PrevYear: py, PrevMonth: pm, Threshold: threshold}
}

// Contains reports whether s falls inside the window, using the same
// predicate as the store's window query.
func (w ReportWindow) Contains(s *WorkSession) bool {
	if s.Year == w.Year && s.Month == w.Month && s.Weekday <= w.Threshold {
		return true
	}
	return s.Year == w.PrevYear && s.Month == w.PrevMonth && s.Weekday > w.Threshold
}

// Label is the month name used in report subjects, e.g. MARCH.
func (w ReportWindow) Label() string {
	return calendar.MonthLabel(w.Month)
}

func (w ReportWindow) String() string {
	return fmt.Sprintf("%s %d (threshold %d)", w.Label(), w.Year, w.Threshold)
}
