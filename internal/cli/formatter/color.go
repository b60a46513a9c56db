package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Hours thresholds map onto OK/Short/Long.
var (
	ColorOK     = lipgloss.Color("#8ec07c")
	ColorShort  = lipgloss.Color("#fabd2f")
	ColorLong   = lipgloss.Color("#fb4934")
	ColorMuted  = lipgloss.Color("#928374")
	ColorText   = lipgloss.Color("#ebdbb2")
	ColorAccent = lipgloss.Color("#fe8019")
)

var (
	StyleOK     = lipgloss.NewStyle().Foreground(ColorOK)
	StyleShort  = lipgloss.NewStyle().Foreground(ColorShort)
	StyleLong   = lipgloss.NewStyle().Foreground(ColorLong)
	StyleMuted  = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleTitle  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	StyleStrong = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
)

const (
	shortDayHours = 4
	longDayHours  = 10
)

// HoursStyle picks the style for a day's hours.
func HoursStyle(hours float64) lipgloss.Style {
	switch {
	case hours >= longDayHours:
		return StyleLong
	case hours < shortDayHours:
		return StyleShort
	default:
		return StyleOK
	}
}

// Header renders an upper-cased title over a rule of the same width.
func Header(text string) string {
	title := strings.ToUpper(text)
	rule := strings.Repeat("─", lipgloss.Width(title))
	return fmt.Sprintf("%s\n%s", StyleTitle.Render(title), StyleMuted.Render(rule))
}

func Dim(text string) string {
	return StyleMuted.Render(text)
}

func Bold(text string) string {
	return StyleStrong.Render(text)
}
