//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds the tracer and meters used by the validator.
// Instruments default to no-ops until telemetry/trace or telemetry/metric installs real providers.
package telemetry

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"trpc.group/trpc-go/trpc-jsonfix-go/parser"
	"trpc.group/trpc-go/trpc-jsonfix-go/telemetry/errs"
	semconvtrace "trpc.group/trpc-go/trpc-jsonfix-go/telemetry/semconv/trace"
)

// grpcDial is a package-level variable to allow test injection of a custom dialer.
var grpcDial = grpc.Dial

// telemetry service constants.
const (
	ServiceName      = "jsonfix"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-go"
	InstrumentName   = "trpc.jsonfix.go"

	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// Span names.
const (
	SpanNameFormat     = "jsonfix.format"
	SpanNameRepair     = "jsonfix.repair"
	SpanNameCheck      = "jsonfix.check"
	SpanNameCheckBatch = "jsonfix.check_batch"
)

// Operation names shared by spans and metrics.
const (
	OperationFormat     = "format"
	OperationRepair     = "repair"
	OperationCheck      = "check"
	OperationCheckBatch = "check_batch"
)

// Outcomes of an operation.
const (
	OutcomeValid    = "valid"
	OutcomeInvalid  = "invalid"
	OutcomeRepaired = "repaired"
	OutcomeFailed   = "failed"
)

// Tracer is the tracer used by the validator. telemetry/trace.Start replaces it.
var Tracer trace.Tracer = noop.NewTracerProvider().Tracer(InstrumentName)

// TraceOutcome annotates span with the result of one operation.
// Syntax errors contribute their kind and position.
func TraceOutcome(span trace.Span, operation string, inputBytes int, outcome string, err error) {
	span.SetAttributes(
		attribute.String(semconvtrace.KeyOperation, operation),
		attribute.Int(semconvtrace.KeyInputBytes, inputBytes),
		attribute.String(semconvtrace.KeyOutcome, outcome),
	)
	if err == nil {
		return
	}
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.Position != nil {
		span.SetAttributes(
			attribute.Int(semconvtrace.KeyErrorLine, syntaxErr.Position.Line),
			attribute.Int(semconvtrace.KeyErrorColumn, syntaxErr.Position.Column),
		)
	}
	span.SetAttributes(
		attribute.String(semconvtrace.KeyErrorType, errs.ToErrorType(err)),
		attribute.String(semconvtrace.KeyErrorMessage, err.Error()),
	)
	span.SetStatus(codes.Error, err.Error())
}

// NewGRPCConn creates a new gRPC connection to the OpenTelemetry Collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	conn, err := grpcDial(endpoint,
		// Note the use of insecure transport here. TLS is recommended in production.
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}
	return conn, nil
}
