package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/worklog/internal/metrics"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger zerolog.Logger
}

// NewLogUseCaseObserver writes one structured line per use case.
func NewLogUseCaseObserver(logger zerolog.Logger) UseCaseObserver {
	return &logUseCaseObserver{logger: logger.With().Str("component", "worklogger").Logger()}
}

func (o *logUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	ev := o.logger.Info()
	if event.Err != nil {
		ev = o.logger.Error().Err(event.Err)
	}
	ev.Str("use_case", event.Name).
		Int64("duration_ms", event.Duration.Milliseconds()).
		Bool("success", event.Success).
		Fields(event.Fields).
		Msg("service_use_case")
}

type metricsUseCaseObserver struct {
	m *metrics.Metrics
}

// NewMetricsUseCaseObserver feeds use-case outcomes into Prometheus collectors.
func NewMetricsUseCaseObserver(m *metrics.Metrics) UseCaseObserver {
	return &metricsUseCaseObserver{m: m}
}

func (o *metricsUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.m.Observe(event.Name, event.Duration, event.Err)
	if rows, ok := event.Fields["rows"].(int); ok && event.Success {
		o.m.ReportRows.Set(float64(rows))
	}
}

type multiUseCaseObserver []UseCaseObserver

func (m multiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, o := range m {
		o.ObserveUseCase(ctx, event)
	}
}

// useCaseObserverOrNoop fans out to every non-nil observer.
func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live multiUseCaseObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	}
	return live
}
