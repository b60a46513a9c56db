package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
)

// worklogHuhTheme matches huh prompts to the formatter palette.
func worklogHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorAccent).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorMuted)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorText).Background(formatter.ColorAccent).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorMuted).Padding(0, 1)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorMuted)

	return t
}

// confirmForm returns a single yes/no form writing into value. Default is no.
func confirmForm(title, description string, value *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Send").
				Negative("Cancel").
				Value(value),
		),
	).WithTheme(worklogHuhTheme()).WithShowHelp(false)
}

// huhConfirm runs confirmForm on the terminal.
func huhConfirm(title, description string) (bool, error) {
	var ok bool
	if err := confirmForm(title, description, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}
