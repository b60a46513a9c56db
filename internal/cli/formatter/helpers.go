package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/worklog/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleTitle.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// SessionPill returns a colored open/closed indicator.
func SessionPill(s *domain.WorkSession) string {
	if s.IsOpen() {
		return StyleOK.Render("● Open")
	}
	return StyleMuted.Render("✔ Closed")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleMuted.Render(id)
}

// FormatHours renders a nullable hours value; nil prints as a dim dash.
func FormatHours(h *float64) string {
	if h == nil {
		return Dim("--")
	}
	return HoursStyle(*h).Render(fmt.Sprintf("%.2f", *h))
}
