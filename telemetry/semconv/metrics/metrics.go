//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package metrics defines metric and attribute names reported by trpc-jsonfix-go.
package metrics

const (
	// KeyMetricName represents the name of the metric.
	KeyMetricName = "metric.name"
	// KeyOperation is the facade operation: format, repair, check or check_batch.
	KeyOperation = "jsonfix.operation"
	// KeyOutcome is the result class of an operation.
	KeyOutcome = "jsonfix.outcome"
	// KeyRepairAction is the name of an applied repair heuristic.
	KeyRepairAction = "jsonfix.repair.action"

	// MetricRequestCnt counts facade calls.
	MetricRequestCnt = "jsonfix.requests"
	// MetricOperationDuration is the duration of one facade call.
	MetricOperationDuration = "jsonfix.operation.duration"
	// MetricInputSize is the size in bytes of the text handed to the facade.
	MetricInputSize = "jsonfix.input.size"
	// MetricRepairActions counts applied repair heuristics.
	MetricRepairActions = "jsonfix.repair.actions"

	// MeterNameValidator is the meter name for validator operations.
	MeterNameValidator = "trpc_jsonfix_go.validator"
)
