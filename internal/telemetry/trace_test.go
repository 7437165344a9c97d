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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"google.golang.org/grpc"

	"trpc.group/trpc-go/trpc-jsonfix-go/parser"
	"trpc.group/trpc-go/trpc-jsonfix-go/repair"
	semconvtrace "trpc.group/trpc-go/trpc-jsonfix-go/telemetry/semconv/trace"
)

func recordSpan(t *testing.T, fn func(span sdktrace.ReadWriteSpan)) sdktrace.ReadOnlySpan {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer(InstrumentName).Start(context.Background(), SpanNameFormat)
	fn(span.(sdktrace.ReadWriteSpan))
	span.End()
	ended := recorder.Ended()
	require.Len(t, ended, 1)
	return ended[0]
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

// TestTraceOutcome_SyntaxError verifies syntax errors annotate kind and position.
func TestTraceOutcome_SyntaxError(t *testing.T) {
	_, err := parser.Parse("{\n  \"a\": ,\n}")
	require.Error(t, err)

	span := recordSpan(t, func(s sdktrace.ReadWriteSpan) {
		TraceOutcome(s, OperationFormat, 12, OutcomeInvalid, err)
	})
	got := attrs(span)
	require.Equal(t, OperationFormat, got[semconvtrace.KeyOperation].AsString())
	require.Equal(t, OutcomeInvalid, got[semconvtrace.KeyOutcome].AsString())
	require.Equal(t, int64(12), got[semconvtrace.KeyInputBytes].AsInt64())
	require.Equal(t, int64(2), got[semconvtrace.KeyErrorLine].AsInt64())
	require.Equal(t, int64(8), got[semconvtrace.KeyErrorColumn].AsInt64())
	require.Equal(t, "unexpected_token", got[semconvtrace.KeyErrorType].AsString())
	require.Equal(t, codes.Error, span.Status().Code)
}

// TestTraceOutcome_Success verifies successful calls leave the status unset.
func TestTraceOutcome_Success(t *testing.T) {
	span := recordSpan(t, func(s sdktrace.ReadWriteSpan) {
		TraceOutcome(s, OperationRepair, 3, OutcomeRepaired, nil)
	})
	got := attrs(span)
	require.Equal(t, OutcomeRepaired, got[semconvtrace.KeyOutcome].AsString())
	_, hasType := got[semconvtrace.KeyErrorType]
	require.False(t, hasType)
	require.Equal(t, codes.Unset, span.Status().Code)
}

// TestTraceOutcome_OtherError verifies non-syntax errors are classified without a position.
func TestTraceOutcome_OtherError(t *testing.T) {
	span := recordSpan(t, func(s sdktrace.ReadWriteSpan) {
		TraceOutcome(s, OperationRepair, 3, OutcomeFailed, repair.ErrUnableToRepair)
	})
	got := attrs(span)
	require.Equal(t, "repair_failed", got[semconvtrace.KeyErrorType].AsString())
	require.Equal(t, repair.FailureMessage, got[semconvtrace.KeyErrorMessage].AsString())
	_, hasLine := got[semconvtrace.KeyErrorLine]
	require.False(t, hasLine)
}

// TestNewGRPCConn verifies dial errors are wrapped.
func TestNewGRPCConn(t *testing.T) {
	orig := grpcDial
	t.Cleanup(func() { grpcDial = orig })

	grpcDial = func(string, ...grpc.DialOption) (*grpc.ClientConn, error) {
		return nil, errors.New("boom")
	}
	_, err := NewGRPCConn("localhost:4317")
	require.ErrorContains(t, err, "failed to create gRPC connection to collector")

	grpcDial = orig
	conn, err := NewGRPCConn("localhost:4317")
	require.NoError(t, err)
	require.NoError(t, conn.Close())
}
