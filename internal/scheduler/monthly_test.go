package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/service"
)

type fakeGenerator struct {
	refs []string
	err  error
}

func (g *fakeGenerator) GenerateReport(_ context.Context, ref string, _ service.ReportOptions) (*service.ReportResult, error) {
	g.refs = append(g.refs, ref)
	if g.err != nil {
		return nil, g.err
	}
	return &service.ReportResult{Window: domain.NewReportWindow(2024, time.February, 7), Path: "/tmp/r.csv", Emailed: true}, nil
}

func TestNextRun(t *testing.T) {
	eight := 8 * time.Hour
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"earlier same day", time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"exactly at", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"later same day", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)},
		{"mid month", time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)},
		{"december wraps", time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextRun(tt.now, 1, eight))
		})
	}
}

func TestReferenceDate(t *testing.T) {
	assert.Equal(t, "2024-02-29", ReferenceDate(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2023-12-31", ReferenceDate(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)))
}

func TestNewMonthlyReport_Validates(t *testing.T) {
	_, err := NewMonthlyReport(&fakeGenerator{}, 29, "08:00", zerolog.Nop())
	assert.Error(t, err)
	_, err = NewMonthlyReport(&fakeGenerator{}, 1, "8am", zerolog.Nop())
	assert.Error(t, err)
}

func TestRunOnce_ReportsPreviousMonth(t *testing.T) {
	gen := &fakeGenerator{}
	s, err := NewMonthlyReport(gen, 1, "08:00", zerolog.Nop())
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"2024-02-29"}, gen.refs)
}

func TestRunOnce_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	gen := &fakeGenerator{err: errors.New("smtp down")}
	s, err := NewMonthlyReport(gen, 1, "08:00", zerolog.New(&buf))
	require.NoError(t, err)

	s.RunOnce(context.Background())
	assert.Contains(t, buf.String(), "Monthly report failed")
	assert.Contains(t, buf.String(), "smtp down")
}

func TestStartStop(t *testing.T) {
	s, err := NewMonthlyReport(&fakeGenerator{}, 1, "08:00", zerolog.Nop())
	require.NoError(t, err)

	s.Start()
	s.Stop()
	s.Stop()
}
