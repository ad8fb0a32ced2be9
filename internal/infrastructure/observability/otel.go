package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zatekoja/doctorfinder/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zatekoja/doctorfinder"

// Telemetry holds the installed providers and the Prometheus scrape handler
type Telemetry struct {
	MetricsHandler http.Handler
	shutdown       []func(context.Context) error
}

// Shutdown flushes and stops every installed provider
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range t.shutdown {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}

// Metrics holds all application metrics
type Metrics struct {
	RequestCount          metric.Int64Counter
	RequestDuration       metric.Float64Histogram
	DerivationCount       metric.Int64Counter
	DerivedResultSize     metric.Int64Histogram
	SuggestionCount       metric.Int64Counter
	DirectoryLoadCount    metric.Int64Counter
	DirectoryLoadDuration metric.Float64Histogram
}

// Setup initializes OpenTelemetry.
// Metrics are always exported for Prometheus scraping; traces and pushed
// metrics are exported over OTLP only when enabled with an endpoint.
func Setup(ctx context.Context, cfg config.OTELConfig) (*Telemetry, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	telemetry := &Telemetry{}

	registry := prometheus.NewRegistry()
	promExporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, err
	}
	telemetry.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	meterOpts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExporter),
	}

	otlpEnabled := cfg.Enabled && cfg.Endpoint != ""
	if otlpEnabled {
		metricExporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, err
		}
		meterOpts = append(meterOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))
	}

	meterProvider := sdkmetric.NewMeterProvider(meterOpts...)
	otel.SetMeterProvider(meterProvider)
	telemetry.shutdown = append(telemetry.shutdown, meterProvider.Shutdown)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		return nil, err
	}

	if otlpEnabled {
		traceExporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, err
		}

		tracerProvider := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tracerProvider)
		telemetry.shutdown = append(telemetry.shutdown, tracerProvider.Shutdown)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return telemetry, nil
}

// InitMetrics initializes application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	derivationCount, err := meter.Int64Counter(
		"directory.derivation.count",
		metric.WithDescription("Number of provider list derivations"),
	)
	if err != nil {
		return nil, err
	}

	derivedResultSize, err := meter.Int64Histogram(
		"directory.derivation.result_size",
		metric.WithDescription("Number of providers in a derived list"),
	)
	if err != nil {
		return nil, err
	}

	suggestionCount, err := meter.Int64Counter(
		"directory.suggestion.count",
		metric.WithDescription("Number of autocomplete lookups"),
	)
	if err != nil {
		return nil, err
	}

	loadCount, err := meter.Int64Counter(
		"directory.load.count",
		metric.WithDescription("Number of provider directory loads by outcome"),
	)
	if err != nil {
		return nil, err
	}

	loadDuration, err := meter.Float64Histogram(
		"directory.load.duration",
		metric.WithDescription("Provider directory load duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:          requestCount,
		RequestDuration:       requestDuration,
		DerivationCount:       derivationCount,
		DerivedResultSize:     derivedResultSize,
		SuggestionCount:       suggestionCount,
		DirectoryLoadCount:    loadCount,
		DirectoryLoadDuration: loadDuration,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records a metric with attributes
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	metrics.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordDerivation records one filter+sort pass over the directory
func RecordDerivation(ctx context.Context, metrics *Metrics, sortKey string, resultSize int) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("directory.sort_key", sortKey))
	metrics.DerivationCount.Add(ctx, 1, attrs)
	metrics.DerivedResultSize.Record(ctx, int64(resultSize), attrs)
}

// RecordSuggestion records one autocomplete lookup
func RecordSuggestion(ctx context.Context, metrics *Metrics, matched int) {
	if metrics == nil {
		return
	}
	metrics.SuggestionCount.Add(ctx, 1, metric.WithAttributes(attribute.Bool("directory.suggestion.empty", matched == 0)))
}

// RecordDirectoryLoad records a directory load and its outcome
func RecordDirectoryLoad(ctx context.Context, metrics *Metrics, outcome string, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("directory.load.outcome", outcome))
	metrics.DirectoryLoadCount.Add(ctx, 1, attrs)
	metrics.DirectoryLoadDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}
