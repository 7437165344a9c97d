//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package validator is the entry point for hosts: it validates and formats
// JSON text, repairs malformed input and checks documents in bulk.
package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-jsonfix-go/formatter"
	itelemetry "trpc.group/trpc-go/trpc-jsonfix-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-jsonfix-go/log"
	"trpc.group/trpc-go/trpc-jsonfix-go/parser"
	"trpc.group/trpc-go/trpc-jsonfix-go/repair"
	semconvtrace "trpc.group/trpc-go/trpc-jsonfix-go/telemetry/semconv/trace"
)

// Validator formats, repairs and checks JSON text. It keeps no state between
// calls apart from its worker pool, so one Validator may serve many goroutines.
type Validator struct {
	opts options
	pool *ants.PoolWithFunc
}

// Repaired is a successful repair.
type Repaired struct {
	Text    string          // Text is the canonical formatting of the repaired document.
	Actions []repair.Action // Actions lists the heuristics applied; empty when the input was valid.
}

// New creates a Validator.
func New(opts ...Option) (*Validator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.poolSize < 0 {
		return nil, errors.New("pool size must not be negative")
	}
	v := &Validator{opts: o}
	if o.poolSize > 0 {
		pool, err := newCheckPool(o.poolSize)
		if err != nil {
			return nil, fmt.Errorf("create check pool: %w", err)
		}
		v.pool = pool
	}
	return v, nil
}

// Close releases the worker pool.
func (v *Validator) Close() error {
	if v.pool != nil {
		v.pool.Release()
	}
	return nil
}

func (v *Validator) parseOptions() []parser.Option {
	return []parser.Option{parser.WithMaxDepth(v.opts.maxDepth)}
}

// Format strictly parses text and returns its canonical formatting.
// On failure the error is a *parser.SyntaxError.
func (v *Validator) Format(ctx context.Context, text string) (formatted string, err error) {
	ctx, span := itelemetry.Tracer.Start(ctx, itelemetry.SpanNameFormat)
	start, outcome := time.Now(), itelemetry.OutcomeValid
	defer func() {
		finish(ctx, span, itelemetry.OperationFormat, len(text), outcome, start, err)
	}()

	val, err := parser.Parse(text, v.parseOptions()...)
	if err != nil {
		outcome = itelemetry.OutcomeInvalid
		log.DebugfContext(ctx, "format: %v", err)
		return "", err
	}
	return formatter.Format(val, v.opts.indent), nil
}

// Repair recovers a valid document from malformed text and formats it.
// On failure the error is repair.ErrUnableToRepair.
func (v *Validator) Repair(ctx context.Context, text string) (repaired *Repaired, err error) {
	ctx, span := itelemetry.Tracer.Start(ctx, itelemetry.SpanNameRepair)
	start, outcome := time.Now(), itelemetry.OutcomeValid
	defer func() {
		finish(ctx, span, itelemetry.OperationRepair, len(text), outcome, start, err)
	}()

	res, err := repair.Repair(text, v.parseOptions()...)
	if err != nil {
		outcome = itelemetry.OutcomeFailed
		log.DebugfContext(ctx, "repair: %v", err)
		return nil, err
	}
	if res.Changed() {
		outcome = itelemetry.OutcomeRepaired
		recordActions(ctx, res.Actions)
	}
	return &Repaired{
		Text:    formatter.Format(res.Value, v.opts.indent),
		Actions: res.Actions,
	}, nil
}

// Check validates text and, when it is invalid, also attempts a repair.
// It never fails: every outcome is described by the Report.
func (v *Validator) Check(ctx context.Context, text string) Report {
	return v.check(ctx, Document{Text: text})
}

func (v *Validator) check(ctx context.Context, doc Document) (report Report) {
	ctx, span := itelemetry.Tracer.Start(ctx, itelemetry.SpanNameCheck)
	start, outcome := time.Now(), itelemetry.OutcomeValid
	var parseErr error
	defer func() {
		finish(ctx, span, itelemetry.OperationCheck, len(doc.Text), outcome, start, parseErr)
	}()

	report.Name = doc.Name
	val, parseErr := parser.Parse(doc.Text, v.parseOptions()...)
	if parseErr == nil {
		report.Valid = true
		report.Formatted = formatter.Format(val, v.opts.indent)
		return report
	}
	outcome = itelemetry.OutcomeInvalid
	report.setError(parseErr)

	res, err := repair.Repair(doc.Text, v.parseOptions()...)
	if err != nil {
		log.DebugfContext(ctx, "check %s: %v", doc.Name, err)
		return report
	}
	outcome = itelemetry.OutcomeRepaired
	recordActions(ctx, res.Actions)
	report.Repaired = formatter.Format(res.Value, v.opts.indent)
	report.Actions = res.Actions
	return report
}

func recordActions(ctx context.Context, actions []repair.Action) {
	kinds := make([]string, 0, len(actions))
	for _, a := range actions {
		kinds = append(kinds, a.Kind.String())
		log.Tracef("repair action: %s", a)
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(semconvtrace.KeyRepairActions, len(actions)))
	itelemetry.IncRepairActions(ctx, kinds)
	log.InfofContext(ctx, "repair: applied %d actions", len(actions))
}

func finish(ctx context.Context, span trace.Span, operation string, size int, outcome string, start time.Time, err error) {
	itelemetry.TraceOutcome(span, operation, size, outcome, err)
	span.End()
	itelemetry.IncRequestCnt(ctx, operation, outcome)
	itelemetry.RecordOperationDuration(ctx, operation, outcome, time.Since(start))
	itelemetry.RecordInputSize(ctx, operation, size)
}

var std = &Validator{opts: defaultOptions()}

// ValidateAndFormat strictly parses text and returns it formatted with
// two-space indentation. On failure the error is a *parser.SyntaxError.
func ValidateAndFormat(text string) (string, error) {
	return std.Format(context.Background(), text)
}

// Repair recovers a valid document from malformed text and returns it
// formatted with two-space indentation, or repair.ErrUnableToRepair.
func Repair(text string) (string, error) {
	res, err := std.Repair(context.Background(), text)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
