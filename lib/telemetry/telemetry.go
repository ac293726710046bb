package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Telemetry holds the providers installed by Setup, either may be nil when
// its exporter is not configured.
type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// Shutdown flushes and stops the installed providers.
func (t Telemetry) Shutdown(ctx context.Context) error {
	errlist := []error{}
	if t.TracerProvider != nil {
		err := t.TracerProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	if t.MeterProvider != nil {
		err := t.MeterProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

// Setup installs global otlp trace/metric providers for the exporters named in
// config. Nothing is installed for an empty config, which leaves otel's no-op
// providers in place.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	if !config.Otlp.Traces.Enabled() && !config.Otlp.Metrics.Enabled() {
		return Telemetry{}, nil
	}

	r, err := newResource(serviceName)
	if err != nil {
		return Telemetry{}, err
	}

	var t Telemetry
	if config.Otlp.Traces.Enabled() {
		t.TracerProvider, err = newTraceProvider(ctx, r, config.Otlp.Traces)
		if err != nil {
			return Telemetry{}, err
		}
		otel.SetTracerProvider(t.TracerProvider)
	}
	if config.Otlp.Metrics.Enabled() {
		t.MeterProvider, err = newMetricProvider(ctx, r, config.Otlp.Metrics)
		if err != nil {
			return t, err
		}
		otel.SetMeterProvider(t.MeterProvider)
	}

	return t, nil
}
