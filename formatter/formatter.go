//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package formatter renders value trees as canonical JSON text.
package formatter

import (
	"strings"
	"unicode/utf8"

	"trpc.group/trpc-go/trpc-jsonfix-go/value"
)

// DefaultIndent is the indentation width of canonical output.
const DefaultIndent = 2

// Format renders v with indent spaces per nesting level.
// Non-empty containers span several lines, empty ones render as {} or [].
// An indent <= 0 renders the compact single-line form.
func Format(v *value.Value, indent int) string {
	w := &writer{}
	if indent > 0 {
		w.indent = strings.Repeat(" ", indent)
	}
	w.writeValue(v, 0)
	return w.sb.String()
}

// Compact renders v without any insignificant whitespace.
func Compact(v *value.Value) string {
	return Format(v, 0)
}

type writer struct {
	sb     strings.Builder
	indent string
}

func (w *writer) newline(depth int) {
	if w.indent == "" {
		return
	}
	w.sb.WriteByte('\n')
	for i := 0; i < depth; i++ {
		w.sb.WriteString(w.indent)
	}
}

func (w *writer) writeValue(v *value.Value, depth int) {
	switch v.Kind() {
	case value.KindNull:
		w.sb.WriteString("null")
	case value.KindBool:
		if v.BoolValue() {
			w.sb.WriteString("true")
		} else {
			w.sb.WriteString("false")
		}
	case value.KindNumber:
		w.sb.WriteString(v.NumberText())
	case value.KindString:
		writeString(&w.sb, v.Str())
	case value.KindArray:
		items := v.Items()
		if len(items) == 0 {
			w.sb.WriteString("[]")
			return
		}
		w.sb.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.newline(depth + 1)
			w.writeValue(item, depth+1)
		}
		w.newline(depth)
		w.sb.WriteByte(']')
	case value.KindObject:
		members := v.Members()
		if len(members) == 0 {
			w.sb.WriteString("{}")
			return
		}
		w.sb.WriteByte('{')
		for i, m := range members {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.newline(depth + 1)
			writeString(&w.sb, m.Key)
			w.sb.WriteByte(':')
			if w.indent != "" {
				w.sb.WriteByte(' ')
			}
			w.writeValue(m.Value, depth+1)
		}
		w.newline(depth)
		w.sb.WriteByte('}')
	}
}

const hexDigits = "0123456789abcdef"

// writeString quotes s using the escape set the lexer accepts.
// '/' and non-ASCII characters are written as is.
func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				sb.WriteString(`\"`)
			case '\\':
				sb.WriteString(`\\`)
			case '\b':
				sb.WriteString(`\b`)
			case '\f':
				sb.WriteString(`\f`)
			case '\n':
				sb.WriteString(`\n`)
			case '\r':
				sb.WriteString(`\r`)
			case '\t':
				sb.WriteString(`\t`)
			default:
				if c < 0x20 {
					sb.WriteString(`\u00`)
					sb.WriteByte(hexDigits[c>>4])
					sb.WriteByte(hexDigits[c&0xF])
				} else {
					sb.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		sb.WriteRune(r)
		i += size
	}
	sb.WriteByte('"')
}

// Quote returns s as a JSON string literal.
func Quote(s string) string {
	var sb strings.Builder
	writeString(&sb, s)
	return sb.String()
}
