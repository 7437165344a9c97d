//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package parser

import (
	"strings"

	"trpc.group/trpc-go/trpc-jsonfix-go/lexer"
	"trpc.group/trpc-go/trpc-jsonfix-go/source"
)

// ErrorKind classifies a SyntaxError.
type ErrorKind uint8

// Syntax error kinds.
const (
	UnexpectedToken ErrorKind = iota + 1
	UnexpectedEOF
	TrailingData
	InvalidString
	InvalidEscape
	InvalidNumber
	InvalidCharacter
	MaxDepth
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected_token"
	case UnexpectedEOF:
		return "unexpected_eof"
	case TrailingData:
		return "trailing_data"
	case InvalidString:
		return "invalid_string"
	case InvalidEscape:
		return "invalid_escape"
	case InvalidNumber:
		return "invalid_number"
	case InvalidCharacter:
		return "invalid_character"
	case MaxDepth:
		return "max_depth"
	default:
		return "unknown"
	}
}

// Messages shared by several error sites.
const (
	MsgUnexpectedEOF   = "Unexpected end of input"
	MsgTrailingData    = "Unexpected trailing data"
	MsgMaxDepthExceeds = "Maximum nesting depth exceeded"
)

// SyntaxError is a strict parse failure.
// Position is nil only when the input is empty.
type SyntaxError struct {
	Kind     ErrorKind
	Message  string
	Expected []string // Expected lists what the parser was looking for, if known.
	Found    string   // Found describes the offending token.
	Position *source.Position
}

// Error returns the message followed by the position, if any.
func (e *SyntaxError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Description())
	if e.Position != nil {
		sb.WriteString(" at ")
		sb.WriteString(e.Position.String())
	}
	return sb.String()
}

// Description returns the message without the position, for hosts that
// render line and column separately.
func (e *SyntaxError) Description() string {
	if e.Kind == UnexpectedEOF && len(e.Expected) > 0 {
		return e.Message + ", expected " + joinExpected(e.Expected)
	}
	return e.Message
}

// Line returns the 1-based line of the error, or 0 without a position.
func (e *SyntaxError) Line() int {
	if e.Position == nil {
		return 0
	}
	return e.Position.Line
}

// Column returns the 1-based column of the error, or 0 without a position.
func (e *SyntaxError) Column() int {
	if e.Position == nil {
		return 0
	}
	return e.Position.Column
}

// joinExpected renders "a", "a or b", "a, b or c".
func joinExpected(expected []string) string {
	switch len(expected) {
	case 0:
		return ""
	case 1:
		return expected[0]
	default:
		return strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
	}
}

func problemKind(p lexer.Problem) ErrorKind {
	switch p {
	case lexer.BadString:
		return InvalidString
	case lexer.BadEscape:
		return InvalidEscape
	case lexer.BadNumber:
		return InvalidNumber
	default:
		return InvalidCharacter
	}
}
