package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/worklog/internal/calendar"
	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/export"
	"github.com/alexanderramin/worklog/internal/service"
)

// errCancelled is returned when the user declines to send the report.
var errCancelled = errors.New("report cancelled")

func newReportCmd(app *App) *cobra.Command {
	var (
		noEmail  bool
		yes      bool
		printCSV bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "report [DATE]",
		Short: "Write the monthly report for DATE's month and email it",
		Example: `  worklog report
  worklog report 2024-03-15 --no-email --format xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := calendar.DateKey(app.now())
			if len(args) == 1 {
				date = args[0]
			}

			opts := service.ReportOptions{SkipEmail: noEmail}
			if format != "" {
				f, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				opts.Format = f
			}

			if !noEmail && !yes && app.interactive() {
				confirm := app.Confirm
				if confirm == nil {
					confirm = huhConfirm
				}
				ok, err := confirm(
					fmt.Sprintf("Send the report for %s?", date),
					fmt.Sprintf("It will be emailed to %s.", app.Recipient),
				)
				if err != nil {
					return err
				}
				if !ok {
					return errCancelled
				}
			}

			result, err := app.WorkLogger.GenerateReport(cmd.Context(), date, opts)
			if result != nil && result.Path != "" {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReport(result, app.Display))
			}
			if err != nil {
				return err
			}

			if printCSV && strings.EqualFold(filepath.Ext(result.Path), ".csv") {
				rows, err := export.ReadCSVFile(result.Path)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRows(rows))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noEmail, "no-email", false, "Write the file without sending it")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&printCSV, "print", false, "Print the written CSV file")
	cmd.Flags().StringVar(&format, "format", "", "Report format: csv or xlsx (default from config)")
	addReportFlagAliases(cmd)

	return cmd
}
