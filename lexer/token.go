//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package lexer scans JSON text into positioned tokens.
package lexer

import (
	"fmt"

	"trpc.group/trpc-go/trpc-jsonfix-go/source"
)

// Kind is the kind of a token.
type Kind uint8

// Token kinds.
const (
	Invalid Kind = iota
	ObjectOpen
	ObjectClose
	ArrayOpen
	ArrayClose
	Colon
	Comma
	String
	Number
	True
	False
	Null
	EndOfInput
)

// String returns the human readable name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case ObjectOpen:
		return "'{'"
	case ObjectClose:
		return "'}'"
	case ArrayOpen:
		return "'['"
	case ArrayClose:
		return "']'"
	case Colon:
		return "':'"
	case Comma:
		return "','"
	case String:
		return "string"
	case Number:
		return "number"
	case True:
		return "'true'"
	case False:
		return "'false'"
	case Null:
		return "'null'"
	case EndOfInput:
		return "end of input"
	default:
		return "invalid token"
	}
}

// Problem classifies why a token is Invalid.
type Problem uint8

// Invalid token problems.
const (
	NoProblem Problem = iota
	BadCharacter
	BadString
	BadEscape
	BadNumber
)

// Token is one lexical unit of the input.
type Token struct {
	Kind  Kind
	Text  string // Text is the raw source slice.
	Start source.Position
	End   source.Position
	// Value is the unescaped content of a String token.
	Value string
	// Problem, Reason and ErrAt describe an Invalid token.
	// ErrAt is the position of the offending character.
	Problem Problem
	Reason  string
	ErrAt   source.Position
}

// Describe renders the token the way it is named in parse errors.
func (t Token) Describe() string {
	switch t.Kind {
	case String:
		return "string " + abbreviate(t.Text)
	case Number:
		return "number " + abbreviate(t.Text)
	case EndOfInput:
		return t.Kind.String()
	case Invalid:
		return fmt.Sprintf("%q", abbreviate(t.Text))
	default:
		return t.Kind.String()
	}
}

const maxDescribeLen = 24

func abbreviate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescribeLen {
		return s
	}
	return string(runes[:maxDescribeLen]) + "..."
}
