package internal

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry bundles the logger, tracer and meter of one component.
type Telemetry struct {
	component string
	name      string

	l *Logger

	tracer trace.Tracer
	meter  metric.Meter
}

func NewTelemetry(component, name string) *Telemetry {
	return &Telemetry{
		component: component,
		name:      name,

		l: NewLogger(component, name),

		tracer: otel.GetTracerProvider().Tracer("canpwm"),
		meter:  otel.GetMeterProvider().Meter("canpwm"),
	}
}

func (t *Telemetry) Logger() *Logger {
	return t.l
}

func (t *Telemetry) LogInfo(msg string, args ...any) {
	t.l.Info(msg, args...)
}

func (t *Telemetry) LogDebug(msg string, args ...any) {
	t.l.Debug(msg, args...)
}

func (t *Telemetry) LogWarn(msg string, args ...any) {
	t.l.Warn(msg, args...)
}

func (t *Telemetry) LogError(msg string, err error, args ...any) {
	t.l.Error(msg, err, args...)
}

func (t *Telemetry) setDefaultAttributes(span trace.Span) {
	span.SetAttributes(
		attribute.String("canpwm.component", t.component),
		attribute.String("canpwm.name", t.name),
	)
}

func (t *Telemetry) NewTrace(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, spanName, opts...)
	t.setDefaultAttributes(span)
	return ctx, span
}

func (t *Telemetry) getMeterName(name string) string {
	return fmt.Sprintf("%s_%s_%s", t.component, t.name, name)
}

// NewCounter registers an observable counter backed by the given load function.
// The load function must be safe for concurrent use.
func (t *Telemetry) NewCounter(name string, load func() int64) {
	counterName := t.getMeterName(name)

	_, err := t.meter.Int64ObservableCounter(counterName,
		metric.WithInt64Callback(func(_ context.Context, obs metric.Int64Observer) error {
			obs.Observe(load())
			return nil
		}),
	)
	if err != nil {
		t.LogError("failed to create counter", err, "name", counterName)
	}
}
