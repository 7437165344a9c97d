//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package errs classifies errors for telemetry.
package errs

import (
	"context"
	"errors"

	"trpc.group/trpc-go/trpc-jsonfix-go/parser"
	"trpc.group/trpc-go/trpc-jsonfix-go/repair"
	semconvtrace "trpc.group/trpc-go/trpc-jsonfix-go/telemetry/semconv/trace"
)

// Error types beyond the syntax error kinds.
const (
	TypeRepairFailed     = "repair_failed"
	TypeCanceled         = "canceled"
	TypeDeadlineExceeded = "deadline_exceeded"
)

// ToErrorType returns the error.type value for err, or "" for nil.
// Syntax errors map to their kind name. It can be replaced to classify
// host-specific errors.
var ToErrorType = func(err error) string {
	if err == nil {
		return ""
	}
	var syntaxErr *parser.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return syntaxErr.Kind.String()
	case errors.Is(err, repair.ErrUnableToRepair):
		return TypeRepairFailed
	case errors.Is(err, context.Canceled):
		return TypeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return TypeDeadlineExceeded
	default:
		return semconvtrace.ValueDefaultErrorType
	}
}
