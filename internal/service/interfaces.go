package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/export"
)

// ErrExport wraps report file and delivery failures from GenerateReport.
var ErrExport = errors.New("report export failed")

// WorkLogger records entries and exits and produces monthly reports.
// It assumes one serial user: concurrent Enter calls for the same day are
// not guarded and leave ambiguous open sessions behind.
type WorkLogger interface {
	Enter(ctx context.Context, timestamp string) (*domain.WorkSession, error)
	Exit(ctx context.Context, timestamp string) (*domain.WorkSession, error)
	ExitSession(ctx context.Context, id, timestamp string) (*domain.WorkSession, error)
	Open(ctx context.Context, timestamp string) (*domain.WorkSession, error)
	ListMonth(ctx context.Context, referenceDate string) ([]*domain.WorkSession, error)
	GenerateReport(ctx context.Context, referenceDate string, opts ReportOptions) (*ReportResult, error)
}

// ReportOptions tune a single GenerateReport call.
type ReportOptions struct {
	// Format overrides the configured report format when set.
	Format export.Format
	// SkipEmail writes the file but does not send it.
	SkipEmail bool
}

// ReportResult describes a generated report. Path is set as soon as the file
// is written, even if delivery later fails.
type ReportResult struct {
	Window     domain.ReportWindow
	Entries    []domain.ReportEntry
	Path       string
	Emailed    bool
	TotalHours float64
}
