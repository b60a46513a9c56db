package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/worklog/internal/calendar"
	"github.com/alexanderramin/worklog/internal/cli/formatter"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [DATE]",
		Short: "List the sessions of the month containing DATE (defaults to today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := calendar.DateKey(app.now())
			if len(args) == 1 {
				date = args[0]
			}
			ref, err := calendar.ParseDate(app.Layout, date)
			if err != nil {
				return err
			}

			sessions, err := app.WorkLogger.ListMonth(cmd.Context(), date)
			if err != nil {
				return err
			}

			title := fmt.Sprintf("%s %d", calendar.MonthLabel(ref.Month()), ref.Year())
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessions(title, sessions, app.Display))
			return nil
		},
	}
}
