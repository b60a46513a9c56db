package api

import (
	"time"

	"github.com/alexanderramin/worklog/internal/calendar"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/service"
)

// TimestampRequest is the body of enter and exit. An empty Timestamp means
// now. ID selects the session to close on exit.
type TimestampRequest struct {
	Timestamp string `json:"timestamp"`
	ID        string `json:"id"`
}

type ReportRequest struct {
	Date      string `json:"date"`
	Format    string `json:"format"`
	SkipEmail bool   `json:"skip_email"`
}

type SessionResponse struct {
	ID       string     `json:"id"`
	Year     int        `json:"year"`
	Month    string     `json:"month"`
	Day      string     `json:"day"`
	Weekday  int        `json:"weekday"`
	WorkDate string     `json:"work_date"`
	Start    time.Time  `json:"start"`
	Finish   *time.Time `json:"finish,omitempty"`
	Hours    *float64   `json:"hours,omitempty"`
}

type ReportResponse struct {
	Window     string            `json:"window"`
	Month      string            `json:"month"`
	Year       int               `json:"year"`
	Rows       int               `json:"rows"`
	TotalHours float64           `json:"total_hours"`
	Path       string            `json:"path"`
	Emailed    bool              `json:"emailed"`
	Entries    []ReportEntryItem `json:"entries"`
}

type ReportEntryItem struct {
	Day    string     `json:"day"`
	Start  time.Time  `json:"start"`
	Finish *time.Time `json:"finish,omitempty"`
	Hours  *float64   `json:"hours,omitempty"`
}

func newSessionResponse(s *domain.WorkSession) SessionResponse {
	return SessionResponse{
		ID:       s.ID,
		Year:     s.Year,
		Month:    calendar.MonthLabel(s.Month),
		Day:      s.Day,
		Weekday:  s.Weekday,
		WorkDate: s.WorkDate,
		Start:    s.Start,
		Finish:   s.Finish,
		Hours:    s.Hours,
	}
}

func newSessionList(sessions []*domain.WorkSession) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, newSessionResponse(s))
	}
	return out
}

func newReportResponse(r *service.ReportResult) ReportResponse {
	resp := ReportResponse{
		Window:     r.Window.String(),
		Month:      r.Window.Label(),
		Year:       r.Window.Year,
		Rows:       len(r.Entries),
		TotalHours: r.TotalHours,
		Path:       r.Path,
		Emailed:    r.Emailed,
		Entries:    make([]ReportEntryItem, 0, len(r.Entries)),
	}
	for _, e := range r.Entries {
		resp.Entries = append(resp.Entries, ReportEntryItem{Day: e.Day, Start: e.Start, Finish: e.Finish, Hours: e.Hours})
	}
	return resp
}
