package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/calendar"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/export"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/alexanderramin/worklog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentReport struct {
	Month string
	Path  string
}

type fakeMailer struct {
	sent []sentReport
	err  error
}

func (m *fakeMailer) SendReport(_ context.Context, monthLabel, path string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentReport{Month: monthLabel, Path: path})
	return nil
}

type failingWriter struct{ err error }

func (w failingWriter) Write(string, []domain.ReportEntry) error { return w.err }

type recordingObserver struct{ events []UseCaseEvent }

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

type fixture struct {
	svc      *workLogger
	sessions repository.SessionRepo
	mailer   *fakeMailer
	dir      string
}

func newFixture(t *testing.T, observers ...UseCaseObserver) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	sessions := repository.NewSQLiteSessionRepo(database)
	mailer := &fakeMailer{}
	dir := t.TempDir()

	settings := Settings{
		TimestampLayout: testutil.TimestampLayout,
		Threshold:       7,
		ReportPath:      filepath.Join(dir, "work_hours.csv"),
		ReportFormat:    export.FormatCSV,
		Display:         export.DefaultDisplay,
		StoreTimeout:    5 * time.Second,
	}
	svc := newWorkLogger(sessions, testutil.NewTestUoW(database), mailer, export.NewWriter, settings, observers...)
	return &fixture{svc: svc, sessions: sessions, mailer: mailer, dir: dir}
}

func TestEnterExit_RecordsHours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entered, err := f.svc.Enter(ctx, "2024-03-04 09:00")
	require.NoError(t, err)
	assert.Equal(t, 2024, entered.Year)
	assert.Equal(t, time.March, entered.Month)
	assert.Equal(t, "MONDAY", entered.Day)
	assert.Equal(t, 1, entered.Weekday)
	assert.True(t, entered.IsOpen())

	exited, err := f.svc.Exit(ctx, "2024-03-04 17:30")
	require.NoError(t, err)
	assert.Equal(t, entered.ID, exited.ID)
	require.NotNil(t, exited.Hours)
	assert.InDelta(t, 8.5, *exited.Hours, 1e-9)

	stored, err := f.sessions.GetByID(ctx, entered.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Finish)
	assert.Equal(t, testutil.At(t, "2024-03-04 17:30"), stored.Finish.UTC())
	assert.InDelta(t, 8.5, *stored.Hours, 1e-9)
}

func TestEnter_ParseError(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Enter(context.Background(), "04/03/2024 9am")
	require.Error(t, err)
	assert.ErrorIs(t, err, calendar.ErrParse)

	rows, err := f.sessions.ListByMonth(context.Background(), 2024, time.March)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExit_WithoutEntry_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Exit(context.Background(), "2024-03-04 17:30")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExit_TwiceForSameDay_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Enter(ctx, "2024-03-04 09:00")
	require.NoError(t, err)
	_, err = f.svc.Exit(ctx, "2024-03-04 17:00")
	require.NoError(t, err)

	_, err = f.svc.Exit(ctx, "2024-03-04 18:00")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExit_TwoOpenEntries_Ambiguous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Enter(ctx, "2024-03-04 09:00")
	require.NoError(t, err)
	_, err = f.svc.Enter(ctx, "2024-03-04 13:00")
	require.NoError(t, err)

	_, err = f.svc.Exit(ctx, "2024-03-04 17:00")
	assert.ErrorIs(t, err, repository.ErrAmbiguousMatch)
}

func TestExit_SameWeekdayPreviousWeek_DoesNotMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Monday 4 March left open; Monday 11 March has no entry.
	_, err := f.svc.Enter(ctx, "2024-03-04 09:00")
	require.NoError(t, err)

	_, err = f.svc.Exit(ctx, "2024-03-11 17:00")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExit_BeforeEntry_RejectedAndLeftOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entered, err := f.svc.Enter(ctx, "2024-03-04 09:00")
	require.NoError(t, err)

	_, err = f.svc.Exit(ctx, "2024-03-04 08:00")
	assert.ErrorIs(t, err, domain.ErrNegativeDuration)

	stored, err := f.sessions.GetByID(ctx, entered.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsOpen())
}

func TestExit_RollbackOnCloseFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := repository.NewSQLiteSessionRepo(database)
	ctx := context.Background()

	// ExecContext #1 inside the exit transaction is the close update.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 1,
		Err:    fmt.Errorf("injected close failure"),
	}
	svc := newWorkLogger(sessions, failUoW, nil, export.NewWriter, Settings{TimestampLayout: testutil.TimestampLayout, Threshold: 7})

	entered, err := svc.Enter(ctx, "2024-03-04 09:00")
	require.NoError(t, err)

	_, err = svc.Exit(ctx, "2024-03-04 17:30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected close failure")

	stored, err := sessions.GetByID(ctx, entered.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsOpen(), "exit should roll back")
}

func TestExit_ClosedStoreIsPersistenceError(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := repository.NewSQLiteSessionRepo(database)
	svc := newWorkLogger(sessions, testutil.NewTestUoW(database), nil, export.NewWriter,
		Settings{TimestampLayout: testutil.TimestampLayout, Threshold: 7})
	ctx := context.Background()

	_, err := svc.Enter(ctx, "2024-03-04 09:00")
	require.NoError(t, err)
	require.NoError(t, database.Close())

	_, err = svc.Exit(ctx, "2024-03-04 17:30")
	assert.ErrorIs(t, err, repository.ErrPersistence)

	_, err = svc.ExitSession(ctx, "any-id", "2024-03-04 17:30")
	assert.ErrorIs(t, err, repository.ErrPersistence)

	_, err = svc.Enter(ctx, "2024-03-05 09:00")
	assert.ErrorIs(t, err, repository.ErrPersistence)
}

func TestExit_CancelledContextIsPersistenceError(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Enter(context.Background(), "2024-03-04 09:00")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.svc.Exit(ctx, "2024-03-04 17:30")
	assert.ErrorIs(t, err, repository.ErrPersistence)
}

func TestExitSession_ByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Enter(ctx, "2024-03-04 09:00")
	require.NoError(t, err)
	_, err = f.svc.Enter(ctx, "2024-03-04 13:00")
	require.NoError(t, err)

	closed, err := f.svc.ExitSession(ctx, first.ID, "2024-03-04 12:00")
	require.NoError(t, err)
	assert.Equal(t, first.ID, closed.ID)
	assert.InDelta(t, 3.0, *closed.Hours, 1e-9)

	_, err = f.svc.ExitSession(ctx, first.ID, "2024-03-04 12:30")
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	_, err = f.svc.ExitSession(ctx, "missing", "2024-03-04 12:30")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOpen_ReturnsTodaysOpenSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entered, err := f.svc.Enter(ctx, "2024-03-04 09:00")
	require.NoError(t, err)

	open, err := f.svc.Open(ctx, "2024-03-04 12:00")
	require.NoError(t, err)
	assert.Equal(t, entered.ID, open.ID)

	_, err = f.svc.Open(ctx, "2024-03-05 12:00")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, ts := range []string{"2024-03-05 09:00", "2024-03-04 09:00", "2024-02-28 09:00"} {
		_, err := f.svc.Enter(ctx, ts)
		require.NoError(t, err)
	}

	rows, err := f.svc.ListMonth(ctx, "2024-03-20")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-04", rows[0].WorkDate)
	assert.Equal(t, "2024-03-05", rows[1].WorkDate)
}

func seedMarch(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	for _, pair := range [][2]string{
		{"2024-03-05 08:30", "2024-03-05 16:00"},
		{"2024-03-04 09:00", "2024-03-04 17:30"},
		{"2024-02-26 09:00", "2024-02-26 17:00"},
	} {
		_, err := f.svc.Enter(ctx, pair[0])
		require.NoError(t, err)
		_, err = f.svc.Exit(ctx, pair[1])
		require.NoError(t, err)
	}
	// Still open: no finish in the report.
	_, err := f.svc.Enter(ctx, "2024-03-06 10:00")
	require.NoError(t, err)
}

func TestGenerateReport_WritesAndSends(t *testing.T) {
	f := newFixture(t)
	seedMarch(t, f)

	result, err := f.svc.GenerateReport(context.Background(), "2024-03-15", ReportOptions{})
	require.NoError(t, err)

	assert.Equal(t, time.March, result.Window.Month)
	assert.Equal(t, time.February, result.Window.PrevMonth)
	require.Len(t, result.Entries, 3)
	assert.Equal(t, "MONDAY", result.Entries[0].Day)
	assert.Equal(t, "TUESDAY", result.Entries[1].Day)
	assert.Nil(t, result.Entries[2].Finish)
	assert.InDelta(t, 16.0, result.TotalHours, 1e-9)
	assert.True(t, result.Emailed)

	rows, err := export.ReadCSVFile(result.Path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, export.Row{Date: "04/03/2024", Day: "MONDAY", Start: "09:00", Finish: "17:30"}, rows[0])
	assert.Equal(t, export.Row{Date: "06/03/2024", Day: "WEDNESDAY", Start: "10:00", Finish: ""}, rows[2])

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, sentReport{Month: "MARCH", Path: result.Path}, f.mailer.sent[0])
}

func TestGenerateReport_ThresholdReachesIntoPreviousMonth(t *testing.T) {
	f := newFixture(t)
	f.svc.settings.Threshold = 3
	ctx := context.Background()

	// Thursday 29 Feb (weekday 4) is above the threshold and comes along;
	// Monday 26 Feb (weekday 1) is not.
	for _, ts := range []string{"2024-02-26 09:00", "2024-02-29 09:00", "2024-03-04 09:00", "2024-03-07 09:00"} {
		_, err := f.svc.Enter(ctx, ts)
		require.NoError(t, err)
	}

	result, err := f.svc.GenerateReport(ctx, "2024-03-15", ReportOptions{SkipEmail: true})
	require.NoError(t, err)

	var dates []string
	for _, e := range result.Entries {
		dates = append(dates, calendar.DateKey(e.Start))
	}
	assert.Equal(t, []string{"2024-02-29", "2024-03-04"}, dates)
}

// monthListingRepo answers window queries with both whole months.
type monthListingRepo struct {
	repository.SessionRepo
}

func (r monthListingRepo) ListWindow(ctx context.Context, w domain.ReportWindow) ([]*domain.WorkSession, error) {
	current, err := r.ListByMonth(ctx, w.Year, w.Month)
	if err != nil {
		return nil, err
	}
	previous, err := r.ListByMonth(ctx, w.PrevYear, w.PrevMonth)
	if err != nil {
		return nil, err
	}
	return append(previous, current...), nil
}

func TestGenerateReport_TrimsRowsOutsideWindow(t *testing.T) {
	f := newFixture(t)
	f.svc.settings.Threshold = 3
	f.svc.sessions = monthListingRepo{SessionRepo: f.sessions}
	ctx := context.Background()

	for _, ts := range []string{"2024-02-26 09:00", "2024-02-29 09:00", "2024-03-04 09:00", "2024-03-07 09:00"} {
		_, err := f.svc.Enter(ctx, ts)
		require.NoError(t, err)
	}

	result, err := f.svc.GenerateReport(ctx, "2024-03-15", ReportOptions{SkipEmail: true})
	require.NoError(t, err)

	var dates []string
	for _, e := range result.Entries {
		dates = append(dates, calendar.DateKey(e.Start))
	}
	assert.Equal(t, []string{"2024-02-29", "2024-03-04"}, dates)
}

func TestGenerateReport_SkipEmail(t *testing.T) {
	f := newFixture(t)
	seedMarch(t, f)

	result, err := f.svc.GenerateReport(context.Background(), "2024-03-15", ReportOptions{SkipEmail: true})
	require.NoError(t, err)
	assert.False(t, result.Emailed)
	assert.Empty(t, f.mailer.sent)
	assert.FileExists(t, result.Path)
}

func TestGenerateReport_EmptyMonthWritesHeaderOnly(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.GenerateReport(context.Background(), "2024-03-15", ReportOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Entries)

	rows, err := export.ReadCSVFile(result.Path)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Len(t, f.mailer.sent, 1)
}

func TestGenerateReport_XLSXOverride(t *testing.T) {
	f := newFixture(t)
	seedMarch(t, f)

	result, err := f.svc.GenerateReport(context.Background(), "2024-03-15", ReportOptions{Format: export.FormatXLSX, SkipEmail: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "work_hours.xlsx"), result.Path)
	assert.FileExists(t, result.Path)
}

func TestGenerateReport_SendFailureKeepsFile(t *testing.T) {
	f := newFixture(t)
	seedMarch(t, f)
	f.mailer.err = fmt.Errorf("%w: connection refused", export.ErrTransport)

	result, err := f.svc.GenerateReport(context.Background(), "2024-03-15", ReportOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExport)
	assert.ErrorIs(t, err, export.ErrTransport)

	require.NotNil(t, result)
	assert.False(t, result.Emailed)
	_, statErr := os.Stat(result.Path)
	assert.NoError(t, statErr, "report file should remain after a failed send")
}

func TestGenerateReport_WriteFailure(t *testing.T) {
	f := newFixture(t)
	f.svc.writers = func(export.Format, export.Display) (export.ReportWriter, error) {
		return failingWriter{err: fmt.Errorf("%w: disk full", export.ErrIO)}, nil
	}

	_, err := f.svc.GenerateReport(context.Background(), "2024-03-15", ReportOptions{})
	assert.ErrorIs(t, err, ErrExport)
	assert.ErrorIs(t, err, export.ErrIO)
	assert.Empty(t, f.mailer.sent)
}

func TestGenerateReport_NoMailer(t *testing.T) {
	f := newFixture(t)
	f.svc.mailer = nil

	result, err := f.svc.GenerateReport(context.Background(), "2024-03-15", ReportOptions{})
	assert.ErrorIs(t, err, ErrExport)
	require.NotNil(t, result)
	assert.FileExists(t, result.Path)
}

func TestGenerateReport_BadDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GenerateReport(context.Background(), "March", ReportOptions{})
	assert.ErrorIs(t, err, calendar.ErrParse)
	assert.False(t, errors.Is(err, ErrExport))
}

func TestUseCasesAreObserved(t *testing.T) {
	obs := &recordingObserver{}
	f := newFixture(t, obs)
	ctx := context.Background()

	_, err := f.svc.Enter(ctx, "2024-03-04 09:00")
	require.NoError(t, err)
	_, err = f.svc.Exit(ctx, "2024-03-05 09:00")
	require.Error(t, err)
	_, err = f.svc.GenerateReport(ctx, "2024-03-15", ReportOptions{SkipEmail: true})
	require.NoError(t, err)

	require.Len(t, obs.events, 3)
	assert.Equal(t, "enter", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "exit", obs.events[1].Name)
	assert.False(t, obs.events[1].Success)
	assert.ErrorIs(t, obs.events[1].Err, repository.ErrNotFound)
	assert.Equal(t, "report", obs.events[2].Name)
	assert.Equal(t, 1, obs.events[2].Fields["rows"])
}

func TestReportPath(t *testing.T) {
	assert.Equal(t, "/tmp/hours.csv", reportPath("/tmp/hours.csv", export.FormatCSV))
	assert.Equal(t, "/tmp/hours.xlsx", reportPath("/tmp/hours.csv", export.FormatXLSX))
	assert.Equal(t, "/tmp/hours.xlsx", reportPath("/tmp/hours", export.FormatXLSX))
}
