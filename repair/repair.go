//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package repair turns malformed JSON-like text into valid JSON with a fixed set of
// auditable heuristics, then verifies the result with the strict parser.
package repair

import (
	"errors"

	"trpc.group/trpc-go/trpc-jsonfix-go/parser"
	"trpc.group/trpc-go/trpc-jsonfix-go/value"
)

// FailureMessage is the message reported when no valid document can be recovered.
const FailureMessage = "Unable to auto-fix this JSON."

// ErrUnableToRepair is returned when the rewritten text still fails strict parsing.
// It never carries a position: offsets of the rewritten text do not map onto the input.
var ErrUnableToRepair = errors.New(FailureMessage)

// Result is the outcome of a repair.
type Result struct {
	Text    string       // Text is the corrected JSON text.
	Value   *value.Value // Value is the verified tree, nil for Rewrite.
	Actions []Action     // Actions lists every heuristic applied.
}

// Changed reports whether any heuristic was applied.
func (r *Result) Changed() bool {
	return len(r.Actions) > 0
}

// Repair rewrites text and verifies the outcome with the strict parser.
// Valid input is returned untouched.
func Repair(text string, opts ...parser.Option) (*Result, error) {
	if v, err := parser.Parse(text, opts...); err == nil {
		return &Result{Text: text, Value: v}, nil
	}
	res := Rewrite(text)
	v, err := parser.Parse(res.Text, opts...)
	if err != nil {
		return nil, ErrUnableToRepair
	}
	res.Value = v
	return res, nil
}
