//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package validator

import (
	"errors"

	"trpc.group/trpc-go/trpc-jsonfix-go/parser"
	"trpc.group/trpc-go/trpc-jsonfix-go/repair"
)

// Document is one named input of a batch check.
type Document struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text"`
}

// Report describes the outcome of checking one document, ready for display.
// Line and Column are zero when the error has no position (empty input).
type Report struct {
	Name      string          `json:"name,omitempty"`
	Valid     bool            `json:"valid"`
	Formatted string          `json:"formatted,omitempty"`
	Message   string          `json:"message,omitempty"`
	Kind      string          `json:"kind,omitempty"`
	Line      int             `json:"line,omitempty"`
	Column    int             `json:"column,omitempty"`
	Repaired  string          `json:"repaired,omitempty"`
	Actions   []repair.Action `json:"actions,omitempty"`
}

// Repairable reports whether an invalid document could be repaired.
func (r *Report) Repairable() bool {
	return !r.Valid && r.Repaired != ""
}

func (r *Report) setError(err error) {
	var syntaxErr *parser.SyntaxError
	if !errors.As(err, &syntaxErr) {
		r.Message = err.Error()
		return
	}
	r.Message = syntaxErr.Description()
	r.Kind = syntaxErr.Kind.String()
	r.Line = syntaxErr.Line()
	r.Column = syntaxErr.Column()
}
