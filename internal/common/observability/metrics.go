package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	placeCounter   otelmetric.Int64Counter
	itineraryTimer otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	placeCounter, _ := meter.Int64Counter(
		"enrichment.places.processed",
		otelmetric.WithDescription("Number of places processed"),
	)

	itineraryTimer, _ := meter.Float64Histogram(
		"enrichment.itinerary.duration",
		otelmetric.WithDescription("Whole-itinerary enrichment duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		placeCounter:   placeCounter,
		itineraryTimer: itineraryTimer,
	}
}

func (o *Observability) RecordPlaceProcessed(ctx context.Context, status string) {
	if o.placeCounter != nil {
		o.placeCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordItineraryDuration(ctx context.Context, duration time.Duration, status string) {
	if o.itineraryTimer != nil {
		o.itineraryTimer.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
