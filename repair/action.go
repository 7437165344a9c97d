//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package repair

import (
	"fmt"

	"trpc.group/trpc-go/trpc-jsonfix-go/source"
)

// ActionKind names one repair heuristic.
type ActionKind uint8

// Repair heuristics, in the order the rewriter detects them.
const (
	CommentStripped ActionKind = iota + 1
	QuotesConverted
	KeyQuoted
	TrailingCommaRemoved
	LiteralReplaced
	BracketClosed
	CommaInserted
	StringClosed
	ControlCharEscaped
	KeywordNormalized
	CodeFenceStripped
	WhitespaceNormalized
	ColonInserted
	CommaRemoved
	NumberCompleted
	EllipsisRemoved
	StringsConcatenated
	BracketRemoved
)

var actionNames = map[ActionKind]string{
	CommentStripped:      "comment_stripped",
	QuotesConverted:      "quotes_converted",
	KeyQuoted:            "key_quoted",
	TrailingCommaRemoved: "trailing_comma_removed",
	LiteralReplaced:      "literal_replaced",
	BracketClosed:        "bracket_closed",
	CommaInserted:        "comma_inserted",
	StringClosed:         "string_closed",
	ControlCharEscaped:   "control_char_escaped",
	KeywordNormalized:    "keyword_normalized",
	CodeFenceStripped:    "code_fence_stripped",
	WhitespaceNormalized: "whitespace_normalized",
	ColonInserted:        "colon_inserted",
	CommaRemoved:         "comma_removed",
	NumberCompleted:      "number_completed",
	EllipsisRemoved:      "ellipsis_removed",
	StringsConcatenated:  "strings_concatenated",
	BracketRemoved:       "bracket_removed",
}

// String returns the snake_case name of the heuristic.
func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ActionKind) UnmarshalText(text []byte) error {
	for kind, name := range actionNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("repair: unknown action kind %q", text)
}

// Action records one correction applied to the input.
// Position refers to the original input, Fragment is the text that was rewritten.
type Action struct {
	Kind     ActionKind      `json:"kind"`
	Position source.Position `json:"position"`
	Fragment string          `json:"fragment,omitempty"`
}

// String renders the action for diagnostics.
func (a Action) String() string {
	if a.Fragment == "" {
		return fmt.Sprintf("%s at %s", a.Kind, a.Position)
	}
	return fmt.Sprintf("%s at %s: %q", a.Kind, a.Position, a.Fragment)
}
