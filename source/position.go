//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package source maps byte offsets of an input text to line and column positions.
package source

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Position is a resolved location in the source text.
// Offset is a 0-based byte offset, Line and Column are 1-based.
// Column counts Unicode code points, not bytes.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String returns the position in "line L, column C" form.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// LineTable holds the line-start offsets of one input text.
type LineTable struct {
	text   string
	starts []int // starts[i] is the byte offset where line i+1 begins.
}

// NewLineTable scans text once and records where every line starts.
func NewLineTable(text string) *LineTable {
	starts := make([]int, 1, 16)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineTable{text: text, starts: starts}
}

// Lines returns the number of lines in the text.
func (t *LineTable) Lines() int {
	return len(t.starts)
}

// Resolve converts a byte offset into a Position.
// Offsets outside the text are clamped to its bounds.
func (t *LineTable) Resolve(offset int) Position {
	offset = min(max(offset, 0), len(t.text))
	// The line is the last start that is <= offset.
	line := sort.Search(len(t.starts), func(i int) bool {
		return t.starts[i] > offset
	})
	lineStart := t.starts[line-1]
	return Position{
		Offset: offset,
		Line:   line,
		Column: utf8.RuneCountInString(t.text[lineStart:offset]) + 1,
	}
}

// End returns the position just past the last character.
func (t *LineTable) End() Position {
	return t.Resolve(len(t.text))
}

// Cursor resolves offsets against a LineTable, remembering the last resolved
// position. Resolving offsets in increasing order costs time proportional to
// the distance between them; an earlier offset falls back to Resolve.
// A Cursor is not safe for concurrent use.
type Cursor struct {
	table *LineTable
	pos   Position
}

// Cursor returns a cursor positioned at the start of the text.
func (t *LineTable) Cursor() *Cursor {
	return &Cursor{table: t, pos: Position{Line: 1, Column: 1}}
}

// Resolve converts a byte offset into a Position.
func (c *Cursor) Resolve(offset int) Position {
	t := c.table
	offset = min(max(offset, 0), len(t.text))
	if offset < c.pos.Offset {
		return t.Resolve(offset)
	}
	for c.pos.Line < len(t.starts) && t.starts[c.pos.Line] <= offset {
		c.pos.Line++
		c.pos.Offset = t.starts[c.pos.Line-1]
		c.pos.Column = 1
	}
	c.pos.Column += utf8.RuneCountInString(t.text[c.pos.Offset:offset])
	c.pos.Offset = offset
	return c.pos
}
