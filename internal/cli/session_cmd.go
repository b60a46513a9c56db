package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
)

func newEnterCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "enter [TIMESTAMP]",
		Short: "Record the start of a work day (defaults to now)",
		Example: `  worklog enter
  worklog enter 2024-03-04 09:00`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.WorkLogger.Enter(cmd.Context(), app.timestampArg(args))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntered(session, app.Display))
			return nil
		},
	}
}

func newExitCmd(app *App) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "exit [TIMESTAMP]",
		Short: "Record the end of a work day (defaults to now)",
		Example: `  worklog exit
  worklog exit 2024-03-04 17:30
  worklog exit --id 3f2c0a1e 2024-03-04 12:00`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts := app.timestampArg(args)

			var (
				session *domain.WorkSession
				err     error
			)
			if id != "" {
				session, err = app.WorkLogger.ExitSession(cmd.Context(), id, ts)
			} else {
				session, err = app.WorkLogger.Exit(cmd.Context(), ts)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExited(session, app.Display))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Close this session instead of today's open one")

	return cmd
}
