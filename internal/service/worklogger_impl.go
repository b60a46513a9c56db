package service

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/worklog/internal/calendar"
	"github.com/alexanderramin/worklog/internal/db"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/export"
	"github.com/alexanderramin/worklog/internal/repository"
)

// Settings are the configuration values the work logger reads.
type Settings struct {
	TimestampLayout string
	Threshold       int
	ReportPath      string
	ReportFormat    export.Format
	Display         export.Display

	// StoreTimeout bounds each store round trip, MailTimeout each delivery.
	// Zero disables the bound.
	StoreTimeout time.Duration
	MailTimeout  time.Duration
}

// WriterFactory picks the ReportWriter for a format.
type WriterFactory func(export.Format, export.Display) (export.ReportWriter, error)

type workLogger struct {
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	mailer   export.Mailer
	writers  WriterFactory
	settings Settings
	observer UseCaseObserver
	now      func() time.Time
}

// NewWorkLogger wires the logger. mailer may be nil when reports are only
// ever generated with SkipEmail.
func NewWorkLogger(
	sessions repository.SessionRepo,
	uow db.UnitOfWork,
	mailer export.Mailer,
	settings Settings,
	observers ...UseCaseObserver,
) WorkLogger {
	return newWorkLogger(sessions, uow, mailer, export.NewWriter, settings, observers...)
}

func newWorkLogger(
	sessions repository.SessionRepo,
	uow db.UnitOfWork,
	mailer export.Mailer,
	writers WriterFactory,
	settings Settings,
	observers ...UseCaseObserver,
) *workLogger {
	return &workLogger{
		sessions: sessions,
		uow:      uow,
		mailer:   mailer,
		writers:  writers,
		settings: settings,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *workLogger) Enter(ctx context.Context, timestamp string) (session *domain.WorkSession, err error) {
	defer s.observe(ctx, "enter", time.Now(), &err, map[string]any{"timestamp": timestamp})

	start, err := calendar.Parse(s.settings.TimestampLayout, timestamp)
	if err != nil {
		return nil, err
	}

	session = domain.NewWorkSession(uuid.New().String(), start, s.now())

	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	if err = s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *workLogger) Exit(ctx context.Context, timestamp string) (session *domain.WorkSession, err error) {
	defer s.observe(ctx, "exit", time.Now(), &err, map[string]any{"timestamp": timestamp})

	finish, err := calendar.Parse(s.settings.TimestampLayout, timestamp)
	if err != nil {
		return nil, err
	}
	key := slotKey(finish)

	return s.closeWithin(ctx, finish, func(ctx context.Context, repo repository.SessionRepo) (*domain.WorkSession, error) {
		return repo.FindOpen(ctx, key)
	})
}

func (s *workLogger) ExitSession(ctx context.Context, id, timestamp string) (session *domain.WorkSession, err error) {
	defer s.observe(ctx, "exit", time.Now(), &err, map[string]any{"timestamp": timestamp, "session_id": id})

	finish, err := calendar.Parse(s.settings.TimestampLayout, timestamp)
	if err != nil {
		return nil, err
	}

	return s.closeWithin(ctx, finish, func(ctx context.Context, repo repository.SessionRepo) (*domain.WorkSession, error) {
		return repo.GetByID(ctx, id)
	})
}

// closeWithin looks up a session and records its exit in one transaction so
// the lookup and the update see the same row.
func (s *workLogger) closeWithin(
	ctx context.Context,
	finish time.Time,
	lookup func(context.Context, repository.SessionRepo) (*domain.WorkSession, error),
) (*domain.WorkSession, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	var closed *domain.WorkSession
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		session, err := lookup(ctx, txSessions)
		if err != nil {
			return err
		}
		if err := session.Close(finish, s.now()); err != nil {
			return err
		}
		if err := txSessions.Close(ctx, session); err != nil {
			return err
		}
		closed = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

func (s *workLogger) Open(ctx context.Context, timestamp string) (*domain.WorkSession, error) {
	at, err := calendar.Parse(s.settings.TimestampLayout, timestamp)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.sessions.FindOpen(ctx, slotKey(at))
}

func (s *workLogger) ListMonth(ctx context.Context, referenceDate string) ([]*domain.WorkSession, error) {
	ref, err := calendar.ParseDate(s.settings.TimestampLayout, referenceDate)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.sessions.ListByMonth(ctx, calendar.YearOf(ref), calendar.MonthOf(ref))
}

func (s *workLogger) GenerateReport(ctx context.Context, referenceDate string, opts ReportOptions) (result *ReportResult, err error) {
	fields := map[string]any{"reference_date": referenceDate}
	defer s.observe(ctx, "report", time.Now(), &err, fields)

	ref, err := calendar.ParseDate(s.settings.TimestampLayout, referenceDate)
	if err != nil {
		return nil, err
	}
	window := domain.NewReportWindow(calendar.YearOf(ref), calendar.MonthOf(ref), s.settings.Threshold)
	fields["window"] = window.String()

	sessions, err := s.listWindow(ctx, window)
	if err != nil {
		return nil, err
	}
	// A SessionRepo may answer with whole months; keep only the window.
	sessions = slices.DeleteFunc(sessions, func(sess *domain.WorkSession) bool {
		return !window.Contains(sess)
	})
	slices.SortStableFunc(sessions, func(a, b *domain.WorkSession) int {
		return a.Start.Compare(b.Start)
	})

	result = &ReportResult{Window: window, Entries: make([]domain.ReportEntry, 0, len(sessions))}
	for _, sess := range sessions {
		result.Entries = append(result.Entries, domain.ReportEntryFrom(sess))
		if sess.Hours != nil {
			result.TotalHours += *sess.Hours
		}
	}
	result.TotalHours = domain.RoundHours(result.TotalHours)
	fields["rows"] = len(result.Entries)

	format := s.settings.ReportFormat
	if opts.Format != "" {
		format = opts.Format
	}
	writer, err := s.writers(format, s.settings.Display)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	path := reportPath(s.settings.ReportPath, format)
	if err = writer.Write(path, result.Entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	result.Path = path
	fields["path"] = path

	if opts.SkipEmail {
		return result, nil
	}
	if s.mailer == nil {
		return result, fmt.Errorf("%w: no mailer configured", ErrExport)
	}

	mailCtx, cancel := withOptionalTimeout(ctx, s.settings.MailTimeout)
	defer cancel()
	// The written file stays on disk if delivery fails.
	if err = s.mailer.SendReport(mailCtx, window.Label(), path); err != nil {
		return result, fmt.Errorf("%w: %w", ErrExport, err)
	}
	result.Emailed = true
	return result, nil
}

func (s *workLogger) listWindow(ctx context.Context, w domain.ReportWindow) ([]*domain.WorkSession, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.sessions.ListWindow(ctx, w)
}

func (s *workLogger) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withOptionalTimeout(ctx, s.settings.StoreTimeout)
}

func (s *workLogger) observe(ctx context.Context, name string, startedAt time.Time, err *error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func slotKey(t time.Time) repository.SlotKey {
	return repository.SlotKey{
		Year:     calendar.YearOf(t),
		Month:    calendar.MonthOf(t),
		Weekday:  calendar.WeekdayOf(t),
		WorkDate: calendar.DateKey(t),
	}
}

// reportPath swaps the configured file's extension to match format.
func reportPath(base string, format export.Format) string {
	if format == "" {
		return base
	}
	ext := "." + string(format)
	if strings.EqualFold(filepath.Ext(base), ext) {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}
