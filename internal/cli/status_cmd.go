package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/repository"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether today's session is open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.now()

			var open *domain.WorkSession
			session, err := app.WorkLogger.Open(cmd.Context(), now.Format(app.Layout))
			switch {
			case err == nil:
				open = session
			case repository.IsNotFound(err):
			default:
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatus(open, now, app.Display))
			return nil
		},
	}
}
