package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"aqarna-listings/internal/common/logger"
)

// Observability bundles the otel meter instruments and the optional tracer.
type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	eventCounter   otelmetric.Int64Counter
	deriveDuration otelmetric.Float64Histogram
	tracing        *Tracing
}

// New registers an otel meter provider backed by the prometheus exporter.
// A failing exporter yields an Observability whose recorders are no-ops.
func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err.Error()})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	eventCounter, _ := meter.Int64Counter(
		"listings.events",
		otelmetric.WithDescription("Listing page events handled"),
	)

	deriveDuration, _ := meter.Float64Histogram(
		"listings.derive.duration",
		otelmetric.WithDescription("Time spent deriving the listing view"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		eventCounter:   eventCounter,
		deriveDuration: deriveDuration,
	}
}

// AttachTracing keeps t so Shutdown flushes it.
func (o *Observability) AttachTracing(t *Tracing) {
	o.tracing = t
}

func (o *Observability) RecordEvent(ctx context.Context, event, outcome string) {
	if o == nil || o.eventCounter == nil {
		return
	}
	o.eventCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("event", event),
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) RecordDerive(ctx context.Context, duration time.Duration, cached bool) {
	if o == nil || o.deriveDuration == nil {
		return
	}
	o.deriveDuration.Record(ctx, float64(duration.Microseconds())/1000.0, otelmetric.WithAttributes(
		attribute.Bool("cached", cached),
	))
}

func (o *Observability) Shutdown(ctx context.Context) {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracing != nil {
		o.tracing.Shutdown(ctx)
	}
}
