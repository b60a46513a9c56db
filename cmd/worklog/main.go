package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/worklog/internal/api"
	"github.com/alexanderramin/worklog/internal/cli"
	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/db"
	"github.com/alexanderramin/worklog/internal/export"
	"github.com/alexanderramin/worklog/internal/logging"
	"github.com/alexanderramin/worklog/internal/metrics"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/alexanderramin/worklog/internal/scheduler"
	"github.com/alexanderramin/worklog/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	app := &cli.App{}

	// Detect interactive terminal for the report confirmation prompt.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Init = func(configPath string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		logger := logging.New(cfg.Log, os.Stderr)
		logger.Debug().Str("config", configPath).Str("db", cfg.DB.Path).Msg("Starting worklog")

		database, err = db.OpenDB(cfg.DB.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		m := metrics.New()

		var mailer export.Mailer
		if cfg.MailEnabled() {
			mailer = export.NewSMTPMailer(cfg.SMTP())
		} else {
			logger.Debug().Msg("Mail not configured; reports can only be written with --no-email")
		}

		workLogger := service.NewWorkLogger(
			repository.NewSQLiteSessionRepo(database),
			db.NewSQLiteUnitOfWork(database),
			mailer,
			service.Settings{
				TimestampLayout: cfg.Timestamp.Layout,
				Threshold:       cfg.Report.EndOfMonthThreshold,
				ReportPath:      cfg.Report.CSVPath,
				ReportFormat:    cfg.ReportFormat(),
				Display:         cfg.ReportDisplay(),
				StoreTimeout:    cfg.DB.Timeout,
				MailTimeout:     cfg.Mail.Timeout,
			},
			service.NewLogUseCaseObserver(logger),
			service.NewMetricsUseCaseObserver(m),
		)

		app.WorkLogger = workLogger
		app.Display = cfg.ReportDisplay()
		app.Layout = cfg.Timestamp.Layout
		app.Recipient = cfg.Mail.Recipient

		app.Finish = func() error {
			if cfg.Metrics.Textfile == "" {
				return nil
			}
			return m.WriteTextfile(cfg.Metrics.Textfile)
		}

		app.Serve = func(ctx context.Context) error {
			sched, err := scheduler.NewMonthlyReport(workLogger, cfg.Report.ScheduleDay, cfg.Report.ScheduleTime, logger)
			if err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			gin.SetMode(gin.ReleaseMode)
			router := api.NewRouter(api.NewHandler(workLogger, cfg.Timestamp.Layout), m.Handler(), logger)
			return api.NewServer(cfg.Server.Addr, router, logger).Run(ctx, nil)
		}

		return nil
	}

	return cli.NewRootCmd(app, config.DefaultPath()).Execute()
}
