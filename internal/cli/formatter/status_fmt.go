package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/export"
)

// FormatStatus describes today's open session, or its absence.
func FormatStatus(open *domain.WorkSession, now time.Time, d export.Display) string {
	if open == nil {
		return RenderBox("Status", Dim("Not clocked in on "+now.Format(d.DateFormat)+"."))
	}
	elapsed := domain.DurationHours(open.Start, now)
	content := fmt.Sprintf("%s since %s\n%s %.2f h\n%s %s",
		SessionPill(open),
		open.Start.Format(d.TimeFormat),
		Dim("Elapsed:"),
		elapsed,
		Dim("Session:"),
		open.ID)
	return RenderBox("Status", content)
}
