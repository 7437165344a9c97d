//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package trace defines the span attribute keys of jsonfix operations.
package trace

// Span attributes.
const (
	KeyOperation     = "jsonfix.operation"
	KeyOutcome       = "jsonfix.outcome"
	KeyInputBytes    = "jsonfix.input.bytes"
	KeyBatchSize     = "jsonfix.batch.size"
	KeyRepairActions = "jsonfix.repair.actions"

	// Position of a syntax error, 1-based.
	KeyErrorLine   = "jsonfix.error.line"
	KeyErrorColumn = "jsonfix.error.column"

	// https://github.com/open-telemetry/semantic-conventions/blob/main/docs/general/recording-errors.md#recording-errors-on-spans
	KeyErrorType          = "error.type"
	KeyErrorMessage       = "error.message"
	ValueDefaultErrorType = "_OTHER"
)
