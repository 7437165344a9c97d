//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package metric exports validator metrics through OpenTelemetry.
package metric

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	itelemetry "trpc.group/trpc-go/trpc-jsonfix-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-jsonfix-go/telemetry/metric/histogram"
	"trpc.group/trpc-go/trpc-jsonfix-go/telemetry/semconv/metrics"
)

// Default buckets: durations from 100µs to 5s, sizes from 64B to 16MiB.
var (
	defaultDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	defaultSizeBuckets     = []float64{64, 512, 4096, 32768, 262144, 2097152, 16777216}
)

var (
	operationDuration *histogram.Dynamic[float64]
	inputSize         *histogram.Dynamic[int64]
)

// InitMeterProvider installs mp and creates the validator instruments on it.
func InitMeterProvider(mp metric.MeterProvider) error {
	if mp == nil {
		return fmt.Errorf("meter provider is nil")
	}
	meter := mp.Meter(metrics.MeterNameValidator)

	requests, err := meter.Int64Counter(
		metrics.MetricRequestCnt,
		metric.WithDescription("Total number of validator calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create metric %s: %w", metrics.MetricRequestCnt, err)
	}
	actions, err := meter.Int64Counter(
		metrics.MetricRepairActions,
		metric.WithDescription("Repair heuristics applied"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create metric %s: %w", metrics.MetricRepairActions, err)
	}
	duration, err := histogram.NewFloat64(mp, histogram.Spec{
		MeterName:   metrics.MeterNameValidator,
		MetricName:  metrics.MetricOperationDuration,
		Description: "Duration of validator operations",
		Unit:        "s",
		Boundaries:  defaultDurationBuckets,
	})
	if err != nil {
		return fmt.Errorf("failed to create metric %s: %w", metrics.MetricOperationDuration, err)
	}
	size, err := histogram.NewInt64(mp, histogram.Spec{
		MeterName:   metrics.MeterNameValidator,
		MetricName:  metrics.MetricInputSize,
		Description: "Size of validator input",
		Unit:        "By",
		Boundaries:  defaultSizeBuckets,
	})
	if err != nil {
		return fmt.Errorf("failed to create metric %s: %w", metrics.MetricInputSize, err)
	}

	itelemetry.MeterProvider = mp
	itelemetry.ValidatorMeter = meter
	itelemetry.MetricRequestCnt = requests
	itelemetry.MetricRepairActions = actions
	itelemetry.MetricOperationDuration = duration
	itelemetry.MetricInputSize = size
	operationDuration, inputSize = duration, size
	return nil
}

// GetMeterProvider returns the meter provider.
func GetMeterProvider() metric.MeterProvider {
	return itelemetry.MeterProvider
}

// SetHistogramBuckets updates bucket boundaries for one of the validator histograms.
// It must be called after InitMeterProvider. Old data is not migrated.
func SetHistogramBuckets(metricName string, boundaries []float64) error {
	switch metricName {
	case metrics.MetricOperationDuration:
		if operationDuration == nil {
			return fmt.Errorf("metric %s not initialized", metricName)
		}
		return operationDuration.SetBuckets(boundaries)
	case metrics.MetricInputSize:
		if inputSize == nil {
			return fmt.Errorf("metric %s not initialized", metricName)
		}
		return inputSize.SetBuckets(boundaries)
	default:
		return fmt.Errorf("unknown or unsupported histogram metric: %s", metricName)
	}
}

// Start creates an OTLP meter provider, installs it and returns its shutdown function.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	mp, err := NewMeterProvider(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := InitMeterProvider(mp); err != nil {
		return nil, err
	}
	return func() error {
		return mp.Shutdown(context.Background())
	}, nil
}

// NewMeterProvider creates a new meter provider with optional configuration.
// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT and OTEL_EXPORTER_OTLP_ENDPOINT supply the
// endpoint when WithEndpoint is not given.
func NewMeterProvider(ctx context.Context, opts ...Option) (*sdkmetric.MeterProvider, error) {
	options := &options{
		serviceName:      itelemetry.ServiceName,
		serviceVersion:   itelemetry.ServiceVersion,
		serviceNamespace: itelemetry.ServiceNamespace,
		protocol:         itelemetry.ProtocolGRPC,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.metricsEndpoint == "" {
		options.metricsEndpoint = metricsEndpoint(options.protocol)
	}

	res, err := buildResource(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch options.protocol {
	case itelemetry.ProtocolHTTP:
		exporter, err = otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(options.metricsEndpoint),
			otlpmetrichttp.WithInsecure())
	default:
		exporter, err = newGRPCExporter(ctx, options.metricsEndpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	), nil
}

func newGRPCExporter(ctx context.Context, endpoint string) (sdkmetric.Exporter, error) {
	conn, err := itelemetry.NewGRPCConn(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics connection: %w", err)
	}
	return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
}

func metricsEndpoint(protocol string) string {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	switch protocol {
	case itelemetry.ProtocolHTTP:
		return "localhost:4318" // otlpmetrichttp appends /v1/metrics
	default:
		return "localhost:4317"
	}
}

// Option is a function that configures meter options.
type Option func(*options)

type options struct {
	metricsEndpoint    string
	serviceName        string
	serviceVersion     string
	serviceNamespace   string
	protocol           string
	resourceAttributes []attribute.KeyValue
}

// WithEndpoint sets the metrics endpoint (host and port), e.g. "collector:4317".
// It takes precedence over the OTEL_* environment variables.
func WithEndpoint(endpoint string) Option {
	return func(opts *options) {
		opts.metricsEndpoint = endpoint
	}
}

// WithProtocol sets the export protocol, "grpc" (default) or "http".
func WithProtocol(protocol string) Option {
	return func(opts *options) {
		opts.protocol = protocol
	}
}

// WithServiceName overrides the service.name resource attribute.
func WithServiceName(serviceName string) Option {
	return func(opts *options) {
		opts.serviceName = serviceName
	}
}

// WithServiceNamespace overrides the service.namespace resource attribute.
func WithServiceNamespace(serviceNamespace string) Option {
	return func(opts *options) {
		opts.serviceNamespace = serviceNamespace
	}
}

// WithServiceVersion overrides the service.version resource attribute.
func WithServiceVersion(serviceVersion string) Option {
	return func(opts *options) {
		opts.serviceVersion = serviceVersion
	}
}

// WithResourceAttributes appends custom resource attributes.
func WithResourceAttributes(attrs ...attribute.KeyValue) Option {
	return func(opts *options) {
		opts.resourceAttributes = append(opts.resourceAttributes, attrs...)
	}
}

func buildResource(ctx context.Context, options *options) (*resource.Resource, error) {
	resourceOpts := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceNamespace(options.serviceNamespace),
			semconv.ServiceName(options.serviceName),
			semconv.ServiceVersion(options.serviceVersion),
		),
		resource.WithFromEnv(),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	}
	if len(options.resourceAttributes) > 0 {
		resourceOpts = append(resourceOpts, resource.WithAttributes(options.resourceAttributes...))
	}
	return resource.New(ctx, resourceOpts...)
}
