// Package scheduler runs the monthly report export in the background.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/worklog/internal/calendar"
	"github.com/alexanderramin/worklog/internal/service"
)

// ReportGenerator is the part of the work logger the scheduler drives.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, referenceDate string, opts service.ReportOptions) (*service.ReportResult, error)
}

// MonthlyReport generates last month's report on a fixed day and time each
// month.
type MonthlyReport struct {
	reports ReportGenerator
	day     int
	clock   time.Duration // offset from local midnight
	logger  zerolog.Logger
	now     func() time.Time

	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewMonthlyReport parses at as HH:MM. day must be 1..28 so every month has it.
func NewMonthlyReport(reports ReportGenerator, day int, at string, logger zerolog.Logger) (*MonthlyReport, error) {
	if day < 1 || day > 28 {
		return nil, fmt.Errorf("schedule day must be 1..28, got %d", day)
	}
	parsed, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("schedule time must be HH:MM: %w", err)
	}

	return &MonthlyReport{
		reports:  reports,
		day:      day,
		clock:    time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute,
		logger:   logger.With().Str("component", "report-scheduler").Logger(),
		now:      time.Now,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins the scheduler loop.
func (s *MonthlyReport) Start() {
	go s.run()
	s.logger.Info().
		Int("day", s.day).
		Str("time", formatClock(s.clock)).
		Msg("Monthly report scheduler started")
}

// Stop ends the loop and waits for an in-flight run to finish.
func (s *MonthlyReport) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		<-s.done
		s.logger.Info().Msg("Monthly report scheduler stopped")
	})
}

func (s *MonthlyReport) run() {
	defer close(s.done)
	for {
		next := NextRun(s.now(), s.day, s.clock)
		wait := time.Until(next)

		s.logger.Info().
			Time("next_run", next).
			Dur("wait_duration", wait).
			Msg("Scheduled next monthly report")

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			s.RunOnce(context.Background())
		case <-s.stopChan:
			timer.Stop()
			return
		}
	}
}

// RunOnce generates and sends the report for the month before now.
func (s *MonthlyReport) RunOnce(ctx context.Context) {
	ref := ReferenceDate(s.now())
	s.logger.Info().Str("reference_date", ref).Msg("Generating monthly report")

	result, err := s.reports.GenerateReport(ctx, ref, service.ReportOptions{})
	if err != nil {
		s.logger.Error().Err(err).Str("reference_date", ref).Msg("Monthly report failed")
		return
	}
	s.logger.Info().
		Str("window", result.Window.String()).
		Int("rows", len(result.Entries)).
		Str("path", result.Path).
		Bool("emailed", result.Emailed).
		Msg("Monthly report complete")
}

// NextRun is the first instant at or after now that falls on day at clock,
// in now's location.
func NextRun(now time.Time, day int, clock time.Duration) time.Time {
	candidate := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location()).Add(clock)
	if candidate.Before(now) {
		candidate = time.Date(now.Year(), now.Month()+1, day, 0, 0, 0, 0, now.Location()).Add(clock)
	}
	return candidate
}

// ReferenceDate is the last day of the month before now, as YYYY-MM-DD.
func ReferenceDate(now time.Time) string {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return calendar.DateKey(firstOfMonth.AddDate(0, 0, -1))
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
