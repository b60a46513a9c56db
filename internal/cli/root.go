package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/worklog/internal/export"
	"github.com/alexanderramin/worklog/internal/service"
)

// App holds what the commands need. main fills it in Init once flags are
// parsed; tests set the fields directly and leave Init nil.
type App struct {
	WorkLogger service.WorkLogger
	Display    export.Display
	Layout     string
	Recipient  string

	// Init loads configuration from the --config path and wires the fields
	// above.
	Init func(configPath string) error
	// Finish runs after a successful command, e.g. to dump metrics.
	Finish func() error
	// Serve runs the HTTP API and scheduler until ctx is done.
	Serve func(ctx context.Context) error

	IsInteractive func() bool
	Confirm       func(title, description string) (bool, error)
	Now           func() time.Time
}

// NewRootCmd creates the top-level "worklog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App, defaultConfig string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "worklog",
		Short:         "Record daily work hours and send monthly reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Init == nil {
				return nil
			}
			return app.Init(configPath)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.Finish == nil {
				return nil
			}
			return app.Finish()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Path to configuration file")

	root.AddCommand(
		newEnterCmd(app),
		newExitCmd(app),
		newReportCmd(app),
		newListCmd(app),
		newStatusCmd(app),
		newServeCmd(app),
	)

	return root
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// timestampArg joins "2024-03-04" "09:00" so the space need not be quoted,
// and defaults to now.
func (a *App) timestampArg(args []string) string {
	if len(args) == 0 {
		return a.now().Format(a.Layout)
	}
	return strings.Join(args, " ")
}
