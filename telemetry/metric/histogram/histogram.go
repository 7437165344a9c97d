//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package histogram provides histograms whose bucket boundaries can be changed at runtime.
package histogram

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"trpc.group/trpc-go/trpc-jsonfix-go/telemetry/semconv/metrics"
)

// ErrNilMeterProvider is returned when a histogram is built without a provider.
var ErrNilMeterProvider = errors.New("histogram: meter provider is nil")

type recordFunc[N int64 | float64] func(ctx context.Context, value N, opts ...metric.RecordOption)

// Dynamic wraps an OpenTelemetry histogram and recreates the instrument
// whenever its bucket boundaries change. Old data is not migrated.
type Dynamic[N int64 | float64] struct {
	mu         sync.RWMutex
	record     recordFunc[N]
	build      func(boundaries []float64) (recordFunc[N], error)
	boundaries []float64
}

// Spec describes the instrument behind a Dynamic histogram.
type Spec struct {
	MeterName   string
	MetricName  string
	Description string
	Unit        string
	Boundaries  []float64 // Boundaries are the initial buckets, nil for SDK defaults.
}

func (s Spec) meter(mp metric.MeterProvider) metric.Meter {
	return mp.Meter(s.MeterName,
		metric.WithInstrumentationAttributes(attribute.String(metrics.KeyMetricName, s.MetricName)))
}

// NewFloat64 creates a float64 histogram, e.g. for durations in seconds.
func NewFloat64(mp metric.MeterProvider, spec Spec) (*Dynamic[float64], error) {
	if mp == nil {
		return nil, ErrNilMeterProvider
	}
	build := func(boundaries []float64) (recordFunc[float64], error) {
		opts := []metric.Float64HistogramOption{
			metric.WithDescription(spec.Description),
			metric.WithUnit(spec.Unit),
		}
		if len(boundaries) > 0 {
			opts = append(opts, metric.WithExplicitBucketBoundaries(boundaries...))
		}
		// A fresh Meter per rebuild; some SDKs cache instruments by name otherwise.
		h, err := spec.meter(mp).Float64Histogram(spec.MetricName, opts...)
		if err != nil {
			return nil, err
		}
		return h.Record, nil
	}
	return newDynamic(build, spec.Boundaries)
}

// NewInt64 creates an int64 histogram, e.g. for sizes in bytes.
func NewInt64(mp metric.MeterProvider, spec Spec) (*Dynamic[int64], error) {
	if mp == nil {
		return nil, ErrNilMeterProvider
	}
	build := func(boundaries []float64) (recordFunc[int64], error) {
		opts := []metric.Int64HistogramOption{
			metric.WithDescription(spec.Description),
			metric.WithUnit(spec.Unit),
		}
		if len(boundaries) > 0 {
			opts = append(opts, metric.WithExplicitBucketBoundaries(boundaries...))
		}
		h, err := spec.meter(mp).Int64Histogram(spec.MetricName, opts...)
		if err != nil {
			return nil, err
		}
		return h.Record, nil
	}
	return newDynamic(build, spec.Boundaries)
}

func newDynamic[N int64 | float64](
	build func([]float64) (recordFunc[N], error),
	boundaries []float64,
) (*Dynamic[N], error) {
	record, err := build(boundaries)
	if err != nil {
		return nil, err
	}
	return &Dynamic[N]{record: record, build: build, boundaries: slices.Clone(boundaries)}, nil
}

// Record records a value with the current instrument. It is safe for concurrent use.
func (d *Dynamic[N]) Record(ctx context.Context, value N, opts ...metric.RecordOption) {
	d.mu.RLock()
	record := d.record
	d.mu.RUnlock()
	record(ctx, value, opts...)
}

// SetBuckets replaces the bucket boundaries. It is safe for concurrent use.
func (d *Dynamic[N]) SetBuckets(boundaries []float64) error {
	if !slices.IsSorted(boundaries) {
		return errors.New("histogram: bucket boundaries must be sorted")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	record, err := d.build(boundaries)
	if err != nil {
		return err
	}
	d.record = record
	d.boundaries = slices.Clone(boundaries)
	return nil
}

// Buckets returns the current bucket boundaries.
func (d *Dynamic[N]) Buckets() []float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.boundaries)
}
