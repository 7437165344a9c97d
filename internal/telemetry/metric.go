//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"trpc.group/trpc-go/trpc-jsonfix-go/telemetry/semconv/metrics"
)

// Float64Recorder is satisfied by metric.Float64Histogram and histogram.Dynamic[float64].
type Float64Recorder interface {
	Record(ctx context.Context, value float64, opts ...metric.RecordOption)
}

// Int64Recorder is satisfied by metric.Int64Histogram and histogram.Dynamic[int64].
type Int64Recorder interface {
	Record(ctx context.Context, value int64, opts ...metric.RecordOption)
}

var (
	MeterProvider metric.MeterProvider = noop.NewMeterProvider()

	ValidatorMeter          metric.Meter        = MeterProvider.Meter(metrics.MeterNameValidator)
	MetricRequestCnt        metric.Int64Counter = noop.Int64Counter{}
	MetricRepairActions     metric.Int64Counter = noop.Int64Counter{}
	MetricOperationDuration Float64Recorder     = noop.Float64Histogram{}
	MetricInputSize         Int64Recorder       = noop.Int64Histogram{}
)

// IncRequestCnt counts one facade call.
func IncRequestCnt(ctx context.Context, operation, outcome string) {
	MetricRequestCnt.Add(ctx, 1, metric.WithAttributes(
		attribute.String(metrics.KeyOperation, operation),
		attribute.String(metrics.KeyOutcome, outcome),
	))
}

// RecordOperationDuration records how long a facade call took.
func RecordOperationDuration(ctx context.Context, operation, outcome string, duration time.Duration) {
	MetricOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(metrics.KeyOperation, operation),
		attribute.String(metrics.KeyOutcome, outcome),
	))
}

// RecordInputSize records the byte length of the input text.
func RecordInputSize(ctx context.Context, operation string, size int) {
	MetricInputSize.Record(ctx, int64(size), metric.WithAttributes(
		attribute.String(metrics.KeyOperation, operation),
	))
}

// IncRepairActions counts applied repair heuristics by name.
func IncRepairActions(ctx context.Context, kinds []string) {
	for _, kind := range kinds {
		MetricRepairActions.Add(ctx, 1, metric.WithAttributes(
			attribute.String(metrics.KeyRepairAction, kind),
		))
	}
}
