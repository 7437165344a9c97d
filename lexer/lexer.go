//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package lexer

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"trpc.group/trpc-go/trpc-jsonfix-go/source"
)

// Lexer produces tokens lazily from a JSON text.
// Scanning the same text twice yields the same token sequence.
type Lexer struct {
	text   string
	pos    int
	lines  *source.LineTable
	cursor *source.Cursor // cursor resolves token offsets, which only move forward.
}

// New creates a lexer over text.
func New(text string) *Lexer {
	lines := source.NewLineTable(text)
	return &Lexer{text: text, lines: lines, cursor: lines.Cursor()}
}

// Lines returns the line table of the scanned text.
func (l *Lexer) Lines() *source.LineTable {
	return l.lines
}

// Tokenize scans the whole text, the last token is always EndOfInput.
func Tokenize(text string) []Token {
	l := New(text)
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == EndOfInput {
			return tokens
		}
	}
}

// Next returns the next token. After the end of input it keeps returning EndOfInput.
func (l *Lexer) Next() Token {
	l.skipWhitespace()
	if l.pos >= len(l.text) {
		end := l.cursor.Resolve(len(l.text))
		return Token{Kind: EndOfInput, Start: end, End: end}
	}
	start := l.pos
	switch c := l.text[start]; c {
	case '{':
		return l.punct(ObjectOpen)
	case '}':
		return l.punct(ObjectClose)
	case '[':
		return l.punct(ArrayOpen)
	case ']':
		return l.punct(ArrayClose)
	case ':':
		return l.punct(Colon)
	case ',':
		return l.punct(Comma)
	case '"':
		return l.scanString()
	case 't':
		if strings.HasPrefix(l.text[start:], "true") {
			return l.emit(True, start, start+4)
		}
	case 'f':
		if strings.HasPrefix(l.text[start:], "false") {
			return l.emit(False, start, start+5)
		}
	case 'n':
		if strings.HasPrefix(l.text[start:], "null") {
			return l.emit(Null, start, start+4)
		}
	default:
		if c == '-' || IsDigit(rune(c)) {
			return l.scanNumber()
		}
	}
	r, size := utf8.DecodeRuneInString(l.text[start:])
	return l.invalid(start, start+size, start, BadCharacter, fmt.Sprintf("Unexpected character %q", r))
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.text) && IsWhitespace(rune(l.text[l.pos])) {
		l.pos++
	}
}

func (l *Lexer) punct(kind Kind) Token {
	return l.emit(kind, l.pos, l.pos+1)
}

func (l *Lexer) emit(kind Kind, start, end int) Token {
	l.pos = end
	return Token{
		Kind:  kind,
		Text:  l.text[start:end],
		Start: l.cursor.Resolve(start),
		End:   l.cursor.Resolve(end),
	}
}

// invalid emits an Invalid token over [start, end) that blames errAt.
// Offsets are resolved in order: start <= errAt <= end.
func (l *Lexer) invalid(start, end, errAt int, problem Problem, reason string) Token {
	end = min(max(end, start+1), len(l.text))
	l.pos = end
	startPos := l.cursor.Resolve(start)
	errPos := l.cursor.Resolve(errAt)
	return Token{
		Kind:    Invalid,
		Text:    l.text[start:end],
		Start:   startPos,
		End:     l.cursor.Resolve(end),
		Problem: problem,
		Reason:  reason,
		ErrAt:   errPos,
	}
}

// scanString scans a double-quoted string starting at l.pos.
func (l *Lexer) scanString() Token {
	start := l.pos
	var sb strings.Builder
	i := start + 1
	for {
		if i >= len(l.text) {
			return l.invalid(start, len(l.text), len(l.text), BadString, "Unterminated string")
		}
		c := l.text[i]
		switch {
		case c == '"':
			tok := l.emit(String, start, i+1)
			tok.Value = sb.String()
			return tok
		case c == '\\':
			next, errAt, reason := l.scanEscape(i, &sb)
			if errAt >= 0 {
				problem := BadEscape
				if errAt >= len(l.text) {
					problem = BadString
				}
				return l.invalid(start, min(errAt+1, len(l.text)), errAt, problem, reason)
			}
			i = next
		case c < 0x20:
			return l.invalid(start, i+1, i, BadString, "Bad control character in string literal")
		default:
			r, size := utf8.DecodeRuneInString(l.text[i:])
			sb.WriteRune(r)
			i += size
		}
	}
}

// scanEscape decodes the escape sequence whose backslash is at i.
// It returns the offset after the sequence, or errAt >= 0 on failure.
func (l *Lexer) scanEscape(i int, sb *strings.Builder) (next int, errAt int, reason string) {
	if i+1 >= len(l.text) {
		return 0, len(l.text), "Unterminated string"
	}
	switch e := l.text[i+1]; e {
	case '"', '\\', '/':
		sb.WriteByte(e)
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		r, at := l.hex4(i + 2)
		if at >= 0 {
			return 0, at, "Bad Unicode escape"
		}
		next = i + 6
		if utf16.IsSurrogate(r) {
			if r2, at2 := l.lowSurrogate(next); at2 < 0 {
				if combined := utf16.DecodeRune(r, r2); combined != utf8.RuneError {
					sb.WriteRune(combined)
					return next + 6, -1, ""
				}
			}
			r = utf8.RuneError
		}
		sb.WriteRune(r)
		return next, -1, ""
	default:
		return 0, i + 1, "Bad escaped character"
	}
	return i + 2, -1, ""
}

// lowSurrogate decodes a following \uXXXX if present.
func (l *Lexer) lowSurrogate(i int) (rune, int) {
	if i+1 >= len(l.text) || l.text[i] != '\\' || l.text[i+1] != 'u' {
		return 0, i
	}
	return l.hex4(i + 2)
}

// hex4 decodes four hex digits at i, or reports the offending offset.
func (l *Lexer) hex4(i int) (rune, int) {
	var r rune
	for j := i; j < i+4; j++ {
		if j >= len(l.text) {
			return 0, len(l.text)
		}
		d, ok := hexValue(l.text[j])
		if !ok {
			return 0, j
		}
		r = r<<4 | d
	}
	return r, -1
}

func hexValue(c byte) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return rune(c - '0'), true
	case c >= 'a' && c <= 'f':
		return rune(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return rune(c-'A') + 10, true
	}
	return 0, false
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	end, errAt := ScanNumber(l.text, start)
	if errAt >= 0 {
		return l.invalid(start, errAt+1, errAt, BadNumber, "Invalid number")
	}
	return l.emit(Number, start, end)
}
