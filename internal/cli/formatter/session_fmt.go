package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/export"
	"github.com/alexanderramin/worklog/internal/service"
)

// FormatSessions renders a month's sessions with a total hours footer.
func FormatSessions(title string, sessions []*domain.WorkSession, d export.Display) string {
	var b strings.Builder
	b.WriteString(Header(title))
	b.WriteString("\n\n")

	if len(sessions) == 0 {
		b.WriteString(Dim("No sessions recorded."))
		b.WriteString("\n")
		return b.String()
	}

	headers := []string{"ID", "DATE", "DAY", "START", "FINISH", "HOURS", "STATE"}
	rows := make([][]string, 0, len(sessions))
	var total float64
	for _, s := range sessions {
		rows = append(rows, []string{
			TruncID(s.ID),
			s.Start.Format(d.DateFormat),
			s.Day,
			s.Start.Format(d.TimeFormat),
			clock(s.Finish, d),
			FormatHours(s.Hours),
			SessionPill(s),
		})
		if s.Hours != nil {
			total += *s.Hours
		}
	}
	total = domain.RoundHours(total)
	footer := []string{"", "", "", "", "TOTAL", fmt.Sprintf("%.2f", total), fmt.Sprintf("%d days", len(sessions))}

	b.WriteString(RenderTableWithFooter(headers, rows, footer))
	return b.String()
}

// FormatReport summarises a generated report.
func FormatReport(r *service.ReportResult, d export.Display) string {
	var b strings.Builder
	b.WriteString(Header("Report " + r.Window.Label() + fmt.Sprintf(" %d", r.Window.Year)))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		rows = append(rows, []string{
			e.Start.Format(d.DateFormat),
			e.Day,
			e.Start.Format(d.TimeFormat),
			clock(e.Finish, d),
			FormatHours(e.Hours),
		})
	}
	footer := []string{"", "", "", "TOTAL", fmt.Sprintf("%.2f", r.TotalHours)}
	b.WriteString(RenderTableWithFooter([]string{"DATE", "DAY", "START", "FINISH", "HOURS"}, rows, footer))
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s\n", Dim("Window:"), r.Window.String())
	fmt.Fprintf(&b, "%s %s\n", Dim("File:  "), r.Path)
	if r.Emailed {
		fmt.Fprintf(&b, "%s %s\n", Dim("Email: "), StyleOK.Render("sent"))
	} else {
		fmt.Fprintf(&b, "%s %s\n", Dim("Email: "), StyleMuted.Render("not sent"))
	}
	return b.String()
}

// FormatRows renders report rows read back from a CSV file.
func FormatRows(rows []export.Row) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Date, r.Day, r.Start, r.Finish})
	}
	return RenderTable(export.Header, out)
}

// FormatEntered confirms a new entry.
func FormatEntered(s *domain.WorkSession, d export.Display) string {
	return fmt.Sprintf("%s %s %s at %s %s\n",
		StyleOK.Render("●"),
		Bold("Entered"),
		s.Start.Format(d.DateFormat),
		s.Start.Format(d.TimeFormat),
		TruncID(s.ID))
}

// FormatExited confirms a recorded exit and its hours.
func FormatExited(s *domain.WorkSession, d export.Display) string {
	return fmt.Sprintf("%s %s %s %s-%s  %s h %s\n",
		StyleMuted.Render("✔"),
		Bold("Exited"),
		s.Start.Format(d.DateFormat),
		s.Start.Format(d.TimeFormat),
		clock(s.Finish, d),
		FormatHours(s.Hours),
		TruncID(s.ID))
}

func clock(t *time.Time, d export.Display) string {
	if t == nil {
		return ""
	}
	return t.Format(d.TimeFormat)
}
